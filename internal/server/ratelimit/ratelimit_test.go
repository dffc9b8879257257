package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "192.168.1.1"
	endpoint := "/resumes"
	method := "GET"

	// Should allow first 10 requests
	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow(clientID, endpoint, method)
		if !allowed {
			t.Errorf("Request %d should be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	// 11th request should be rate limited
	allowed, info := limiter.Allow(clientID, endpoint, method)
	if allowed {
		t.Error("11th request should be rate limited")
	}
	if info.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Errorf("Expected positive RetryAfter, got %v", info.RetryAfter)
	}
	if !info.ResetTime.After(time.Now()) {
		t.Error("Expected ResetTime in the future")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     make(map[string]bool),
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/paginate", "POST")
		if !allowed {
			t.Errorf("Whitelisted request %d should be allowed", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("Expected no limit for whitelisted client, got %d", info.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     map[string]bool{"10.0.0.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	allowed, info := limiter.Allow("10.0.0.1", "/resumes", "GET")
	if allowed {
		t.Error("Blacklisted client should be denied")
	}
	if info.Limit != 0 {
		t.Errorf("Expected limit 0 for blacklisted client, got %d", info.Limit)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("192.168.1.1", "/paginate", "POST")
		if !allowed {
			t.Errorf("Request %d should be allowed when limiting is disabled", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", info.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Path: "/resumes/*/export.pdf", Method: "GET", Limit: 2, Window: time.Minute, Burst: 2},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "192.168.1.1"

	// Exports share one bucket regardless of the resume id
	if allowed, _ := limiter.Allow(clientID, "/resumes/a/export.pdf", "GET"); !allowed {
		t.Error("First export should be allowed")
	}
	if allowed, _ := limiter.Allow(clientID, "/resumes/b/export.pdf", "GET"); !allowed {
		t.Error("Second export should be allowed")
	}
	allowed, info := limiter.Allow(clientID, "/resumes/c/export.pdf", "GET")
	if allowed {
		t.Error("Third export should be rate limited")
	}
	if info.Limit != 2 {
		t.Errorf("Expected endpoint limit 2, got %d", info.Limit)
	}

	// Other endpoints use the default limit
	allowed, info = limiter.Allow(clientID, "/resumes/c", "GET")
	if !allowed {
		t.Error("Default endpoint should still be allowed")
	}
	if info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", info.Limit)
	}

	// Health check is unlimited
	allowed, info = limiter.Allow(clientID, "/health", "GET")
	if !allowed || info.Limit != 0 {
		t.Errorf("Health check should be unlimited, got allowed=%v limit=%d", allowed, info.Limit)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("192.168.1.1", "/resumes", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected exactly 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	limiter.Allow("192.168.1.1", "/resumes", "GET")
	limiter.Allow("192.168.1.2", "/resumes", "GET")
	if n := limiter.bucketCount(); n != 2 {
		t.Fatalf("Expected 2 buckets, got %d", n)
	}

	limiter.cleanupBuckets(time.Now().Add(-time.Hour))
	if n := limiter.bucketCount(); n != 2 {
		t.Errorf("Recent buckets should survive cleanup, got %d", n)
	}

	limiter.cleanupBuckets(time.Now().Add(time.Second))
	if n := limiter.bucketCount(); n != 0 {
		t.Errorf("Expected idle buckets to be removed, got %d", n)
	}
}

func TestLimiter_Burst(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Path: "/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("192.168.1.1", "/auth/login", "POST"); !allowed {
			t.Errorf("Burst request %d should be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("192.168.1.1", "/auth/login", "POST"); allowed {
		t.Error("Request beyond burst should be rate limited")
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("192.168.1.1", "/resumes", "GET")
	if !allowed {
		t.Error("Request should be allowed with default config")
	}
	if info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", info.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name   string
		path   string
		method string
		want   string
	}{
		{name: "exact", path: "/paginate", method: "POST", want: "/paginate"},
		{name: "wildcard export", path: "/resumes/123/export.pdf", method: "GET", want: "/resumes/*/export.pdf"},
		{name: "wildcard share", path: "/resumes/123/share", method: "POST", want: "/resumes/*/share"},
		{name: "prefix update", path: "/resumes/123", method: "PUT", want: "/resumes/"},
		{name: "create is exact", path: "/resumes", method: "POST", want: "/resumes"},
		{name: "wildcard needs a segment", path: "/resumes//export.pdf", method: "GET", want: ""},
		{name: "method mismatch", path: "/paginate", method: "GET", want: ""},
		{name: "unknown", path: "/nope", method: "GET", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Expected no match, got %q", got.Path)
				}
				return
			}
			if got == nil || got.Path != tt.want {
				t.Errorf("Expected match %q, got %v", tt.want, got)
			}
		})
	}

	health := MatchEndpoint("/health", "GET", configs)
	if health == nil || health.Limit != 0 {
		t.Errorf("Expected unlimited health check, got %v", health)
	}
}

func TestParseIPList(t *testing.T) {
	got := parseIPList(" 10.0.0.1, ,10.0.0.2 ")
	if len(got) != 2 || !got["10.0.0.1"] || !got["10.0.0.2"] {
		t.Errorf("Unexpected IP list: %v", got)
	}
	if len(parseIPList("")) != 0 {
		t.Error("Expected empty list")
	}
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig(envMap(nil))

	if !cfg.Enabled || cfg.DefaultLimit != 1000 || cfg.DefaultWindow != time.Minute || cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	export := MatchEndpoint("/resumes/abc/export.pdf", "GET", cfg.EndpointConfigs)
	if export == nil || export.Limit != 10 || export.Burst != 2 {
		t.Errorf("Unexpected export limit: %+v", export)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := loadConfig(envMap(map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":     "50",
		"RATE_LIMIT_DEFAULT_WINDOW":    "30s",
		"RATE_LIMIT_EXPORT_PER_MINUTE": "3",
		"RATE_LIMIT_WHITELIST":         "127.0.0.1",
		"RATE_LIMIT_BLACKLIST":         "10.0.0.9, 10.0.0.10",
	}))

	if cfg.DefaultLimit != 50 || cfg.DefaultWindow != 30*time.Second {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if !cfg.Whitelist["127.0.0.1"] || len(cfg.Blacklist) != 2 {
		t.Errorf("Unexpected IP lists: %v %v", cfg.Whitelist, cfg.Blacklist)
	}
	export := MatchEndpoint("/resumes/abc/export.pdf", "GET", cfg.EndpointConfigs)
	if export == nil || export.Limit != 3 || export.Burst != 1 {
		t.Errorf("Unexpected export limit: %+v", export)
	}
}

func TestLoadConfig_RejectsNonPositive(t *testing.T) {
	cfg := loadConfig(envMap(map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":     "0",
		"RATE_LIMIT_DEFAULT_WINDOW":    "-1m",
		"RATE_LIMIT_CLEANUP_INTERVAL":  "soon",
		"RATE_LIMIT_EXPORT_PER_MINUTE": "-4",
	}))

	if cfg.DefaultLimit != 1000 || cfg.DefaultWindow != time.Minute || cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("Expected fallbacks, got %+v", cfg)
	}
	export := MatchEndpoint("/resumes/abc/export.pdf", "GET", cfg.EndpointConfigs)
	if export == nil || export.Limit != 10 {
		t.Errorf("Expected default export limit, got %+v", export)
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	if cfg := LoadConfig(); cfg.Enabled {
		t.Error("Expected limiter to be disabled")
	}
}
