package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopadmin/internal/shared/config"
	"shopadmin/pkg/logger"
)

var testPaths = config.AuthConfig{
	LoginPath:        "/token",
	RefreshPath:      "/token/refresh",
	InvalidationPath: "/invalidate-token",
}

type stubStore struct {
	mu    sync.Mutex
	creds map[string]*Credential
	err   error
	calls int
}

func newStubStore(t *testing.T) *stubStore {
	t.Helper()
	s := &stubStore{creds: map[string]*Credential{}}
	s.add(t, "hong@example.com", "홍길동", "password123", RoleMember)
	s.add(t, "admin@example.com", "admin", "qwaszx", RoleAdmin, RoleMember)
	return s
}

func (s *stubStore) add(t *testing.T, email, username, password string, roles ...string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	cred := &Credential{Subject: email, PasswordHash: string(hash), Roles: roles}
	s.creds[email] = cred
	s.creds[username] = cred
}

func (s *stubStore) remove(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for login, cred := range s.creds {
		if cred.Subject == email {
			delete(s.creds, login)
		}
	}
}

func (s *stubStore) FindCredential(_ context.Context, login string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	cred, ok := s.creds[login]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return cred, nil
}

func (s *stubStore) FindSubject(_ context.Context, subject string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, cred := range s.creds {
		if cred.Subject == subject {
			return cred, nil
		}
	}
	return nil, ErrCredentialNotFound
}

var errStoreDown = errors.New("connection refused")

func newTestEngine(t *testing.T) (*gin.Engine, *Handler, *stubStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newStubStore(t)
	h := NewHandler(newTestProvider(t), store, nil, logger.Discard(), CookieOptions{SameSite: http.SameSiteLaxMode})

	engine := gin.New()
	engine.Use(h.InvalidationFilter(testPaths.InvalidationPath))
	SetupAuthRoutes(engine, h, testPaths)
	engine.GET("/downstream", func(c *gin.Context) { c.String(http.StatusOK, "reached") })
	return engine, h, store
}

func postForm(engine http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
