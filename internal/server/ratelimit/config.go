package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern ("*" segments and "/" prefixes)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

const (
	defaultLimit           = 1000
	defaultExportPerMinute = 10
)

// LoadConfig reads the limiter settings from the environment:
//
//	RATE_LIMIT_ENABLED           on unless set to a false value
//	RATE_LIMIT_DEFAULT_LIMIT     requests per window for unlisted routes
//	RATE_LIMIT_DEFAULT_WINDOW    window for unlisted routes, e.g. "1m"
//	RATE_LIMIT_CLEANUP_INTERVAL  how often idle buckets are dropped
//	RATE_LIMIT_EXPORT_PER_MINUTE PDF renders per client per minute
//	RATE_LIMIT_WHITELIST         comma-separated client IPs never limited
//	RATE_LIMIT_BLACKLIST         comma-separated client IPs always refused
//
// Unparseable or non-positive numbers keep their defaults.
func LoadConfig() *Config {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) *Config {
	env := envReader(lookup)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.positiveInt("RATE_LIMIT_DEFAULT_LIMIT", defaultLimit),
		DefaultWindow:   env.positiveDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.positiveDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.str("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(env.str("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigs(env.positiveInt("RATE_LIMIT_EXPORT_PER_MINUTE", defaultExportPerMinute)),
	}
}

// DefaultEndpointConfigs returns the per-route limits used when nothing is
// overridden. Routes not listed fall back to the default limit; /health is
// never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(defaultExportPerMinute)
}

func endpointConfigs(exportPerMinute int) []EndpointConfig {
	exportBurst := max(1, exportPerMinute/5)

	return []EndpointConfig{
		// rendering: each request drives a headless browser
		{Path: "/resumes/*/export.pdf", Method: "GET", Limit: exportPerMinute, Window: time.Minute, Burst: exportBurst},

		// credentials
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/resumes/*/share", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// pagination and resume writes
		{Path: "/paginate", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/resumes", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// envReader reads typed settings through a lookup such as os.LookupEnv.
type envReader func(string) (string, bool)

func (e envReader) str(key string) string {
	v, _ := e(key)
	return strings.TrimSpace(v)
}

func (e envReader) boolean(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(e.str(key)); err == nil {
		return b
	}
	return fallback
}

func (e envReader) positiveInt(key string, fallback int) int {
	if n, err := strconv.Atoi(e.str(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func (e envReader) positiveDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.str(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

// parseIPList turns "10.0.0.1, 10.0.0.2" into a lookup set, skipping blanks.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for ip := range strings.SplitSeq(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
