package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/db"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/server/ratelimit"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*db.User
	resumes map[uuid.UUID]*db.Resume
	pages   map[uuid.UUID]*db.PageSnapshot
	pingErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uuid.UUID]*db.User),
		resumes: make(map[uuid.UUID]*db.Resume),
		pages:   make(map[uuid.UUID]*db.PageSnapshot),
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) Close() {}

func (m *memStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

// copyResume round-trips through JSON so callers never share state with the store.
func copyResume(r *db.Resume) *db.Resume {
	data, _ := json.Marshal(r)
	var out db.Resume
	_ = json.Unmarshal(data, &out)
	return &out
}

func (m *memStore) CreateResume(_ context.Context, userID uuid.UUID, title string, doc *types.ResumeDocument) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	r := &db.Resume{ID: uuid.New(), UserID: userID, Title: title, Document: *doc.Clone(), CreatedAt: now, UpdatedAt: now}
	m.resumes[r.ID] = r
	return copyResume(r), nil
}

func (m *memStore) GetResume(_ context.Context, id uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resumes[id]; ok {
		return copyResume(r), nil
	}
	return nil, nil
}

func (m *memStore) GetResumeByShareToken(_ context.Context, token string) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.resumes {
		if token != "" && r.ShareToken != nil && *r.ShareToken == token {
			return copyResume(r), nil
		}
	}
	return nil, nil
}

func (m *memStore) ListResumes(_ context.Context, userID uuid.UUID) ([]db.ResumeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.ResumeSummary{}
	for _, r := range m.resumes {
		if r.UserID != userID {
			continue
		}
		s := db.ResumeSummary{ID: r.ID, Title: r.Title, UpdatedAt: r.UpdatedAt}
		if p, ok := m.pages[r.ID]; ok {
			s.PageCount = p.PageCount
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) UpdateResume(_ context.Context, id uuid.UUID, title string, doc *types.ResumeDocument) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[id]
	if !ok {
		return nil, &db.NotFoundError{Entity: "resume", ID: id.String()}
	}
	r.Title = title
	r.Document = *doc.Clone()
	r.UpdatedAt = time.Now()
	return copyResume(r), nil
}

func (m *memStore) DeleteResume(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[id]; !ok {
		return &db.NotFoundError{Entity: "resume", ID: id.String()}
	}
	delete(m.resumes, id)
	delete(m.pages, id)
	return nil
}

func (m *memStore) SetShareToken(_ context.Context, id uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[id]
	if !ok {
		return &db.NotFoundError{Entity: "resume", ID: id.String()}
	}
	r.ShareToken = &token
	return nil
}

func (m *memStore) SavePages(_ context.Context, resumeID uuid.UUID, pages []types.PageContent, optionsKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.pages[resumeID] = &db.PageSnapshot{ResumeID: resumeID, Pages: pages, PageCount: len(pages), OptionsKey: optionsKey, ComputedAt: time.Now()}
	return nil
}

func (m *memStore) GetPages(_ context.Context, resumeID uuid.UUID) (*db.PageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pages[resumeID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// fakeExporter records export calls and returns a fixed payload.
type fakeExporter struct {
	mu    sync.Mutex
	calls int
	pages int
	err   error
}

func (f *fakeExporter) ExportDocument(_ context.Context, _ *types.ResumeDocument, pages []types.PageContent, _ layout.Options) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.pages = len(pages)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4\n%fake\n"), nil
}

func (f *fakeExporter) Close(context.Context) {}

// testEnv is a server wired to in-memory collaborators.
type testEnv struct {
	server   *Server
	store    *memStore
	exporter *fakeExporter
	handler  http.Handler
}

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	exporter := &fakeExporter{}
	s := NewWithDeps(0, Deps{
		Store:     store,
		JWT:       NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1}),
		Passwords: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		Exporter:  exporter,
		Layout:    layout.DefaultOptions(),
		PublicURL: "https://resumes.example.com/",
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	t.Cleanup(s.rateLimiter.Stop)
	return &testEnv{server: s, store: store, exporter: exporter, handler: s.Handler()}
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", "", types.CreateUserRequest{
		Name: "Test User", Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}
