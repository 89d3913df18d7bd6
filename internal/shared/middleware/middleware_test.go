package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopadmin/internal/auth"
	"shopadmin/internal/shared/config"
	"shopadmin/pkg/cache"
	"shopadmin/pkg/logger"
)

type stubTokens map[string]string

func (s stubTokens) Validate(token string) (string, error) {
	if token == "expired" {
		return "", auth.ErrTokenExpired
	}
	sub, ok := s[token]
	if !ok {
		return "", auth.ErrInvalidToken
	}
	return sub, nil
}

type stubRoles struct {
	roles map[string][]string
	err   error
}

func (s stubRoles) ResolveRoles(_ context.Context, subject string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.roles[subject]
	if !ok {
		return nil, auth.ErrCredentialNotFound
	}
	return r, nil
}

func newPolicyEngine(roles stubRoles) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubTokens{"admin-token": "admin@example.com", "member-token": "hong@example.com", "ghost-token": "ghost@example.com"}

	engine := gin.New()
	engine.Use(Authorize(DefaultAccessPolicy("/invalidate-token"), tokens, roles, logger.Discard()))
	ok := func(c *gin.Context) {
		sub, _ := Subject(c)
		c.String(http.StatusOK, sub)
	}
	engine.GET("/admin/members", ok)
	engine.DELETE("/admin/orders/:id", ok)
	engine.GET("/api/member", ok)
	engine.GET("/api/orders", ok)
	engine.GET("/health", ok)
	return engine
}

var defaultRoles = stubRoles{roles: map[string][]string{
	"admin@example.com": {auth.RoleAdmin, auth.RoleMember},
	"hong@example.com":  {auth.RoleMember},
}}

func call(engine http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAccessPolicy_Match(t *testing.T) {
	t.Parallel()
	p := DefaultAccessPolicy("/invalidate-token")

	cases := []struct {
		method, path string
		matched      bool
		role         string
	}{
		{http.MethodGet, "/admin/members", true, auth.RoleAdmin},
		{http.MethodPost, "/admin/products", true, auth.RoleAdmin},
		{http.MethodDelete, "/admin/orders/42", true, auth.RoleAdmin},
		{http.MethodPut, "/admin/members/1/roles/2", true, auth.RoleAdmin},
		{http.MethodGet, "/admin/roles", true, auth.RoleAdmin},
		{http.MethodGet, "/api/member", true, auth.RoleMember},
		{http.MethodPost, "/api/member", false, ""},
		{http.MethodGet, "/api/orders", true, auth.RoleMember},
		{http.MethodGet, "/invalidate-token", true, ""},
		{http.MethodPost, "/token", false, ""},
		{http.MethodGet, "/health", false, ""},
		{http.MethodGet, "/administrator", false, ""},
	}
	for _, tc := range cases {
		rule, ok := p.Match(tc.method, tc.path)
		assert.Equal(t, tc.matched, ok, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.role, rule.Role, "%s %s", tc.method, tc.path)
	}
}

func TestAuthorize_Decisions(t *testing.T) {
	engine := newPolicyEngine(defaultRoles)

	cases := []struct {
		name, method, path, token string
		want                      int
	}{
		{"admin on admin route", http.MethodGet, "/admin/members", "admin-token", http.StatusOK},
		{"member on admin route", http.MethodGet, "/admin/members", "member-token", http.StatusForbidden},
		{"member deleting order", http.MethodDelete, "/admin/orders/1", "member-token", http.StatusForbidden},
		{"anonymous on admin route", http.MethodGet, "/admin/members", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/admin/members", "nope", http.StatusUnauthorized},
		{"member self service", http.MethodGet, "/api/member", "member-token", http.StatusOK},
		{"admin also member", http.MethodGet, "/api/orders", "admin-token", http.StatusOK},
		{"anonymous self service", http.MethodGet, "/api/member", "", http.StatusUnauthorized},
		{"unknown subject", http.MethodGet, "/api/member", "ghost-token", http.StatusUnauthorized},
		{"public route", http.MethodGet, "/health", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := call(engine, tc.method, tc.path, tc.token)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAuthorize_ErrorBodies(t *testing.T) {
	engine := newPolicyEngine(defaultRoles)

	rec := call(engine, http.MethodGet, "/admin/members", "")
	assert.JSONEq(t, `{"error":"Unauthenticated","message":"authentication required"}`, rec.Body.String())

	rec = call(engine, http.MethodGet, "/admin/members", "expired")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthenticated","message":"token expired"}`, rec.Body.String())

	rec = call(engine, http.MethodGet, "/admin/members", "member-token")
	assert.JSONEq(t, `{"error":"Forbidden","message":"insufficient permissions"}`, rec.Body.String())
}

func TestAuthorize_SetsSubject(t *testing.T) {
	engine := newPolicyEngine(defaultRoles)

	rec := call(engine, http.MethodGet, "/api/member", "member-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hong@example.com", rec.Body.String())
}

func TestAuthorize_RoleStoreDown(t *testing.T) {
	engine := newPolicyEngine(stubRoles{err: errors.New("db down")})

	rec := call(engine, http.MethodGet, "/admin/members", "admin-token")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// End to end: login, use the access token, then log out.

type memStore map[string]*auth.Credential

func (m memStore) FindCredential(_ context.Context, login string) (*auth.Credential, error) {
	c, ok := m[login]
	if !ok {
		return nil, auth.ErrCredentialNotFound
	}
	return c, nil
}

func (m memStore) FindSubject(_ context.Context, subject string) (*auth.Credential, error) {
	for _, c := range m {
		if c.Subject == subject {
			return c, nil
		}
	}
	return nil, auth.ErrCredentialNotFound
}

func newFullChain(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		require.NoError(t, err)
		return string(h)
	}
	store := memStore{
		"hong@example.com":  {Subject: "hong@example.com", PasswordHash: hash("password123"), Roles: []string{"MEMBER"}},
		"admin@example.com": {Subject: "admin@example.com", PasswordHash: hash("qwaszx"), Roles: []string{"ROLE_ADMIN", "ROLE_MEMBER"}},
	}
	tokens, err := auth.NewTokenProvider(config.JWTConfig{
		Secret:     "end-to-end-secret-0123456789abcdef",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	paths := config.AuthConfig{LoginPath: "/token", RefreshPath: "/token/refresh", InvalidationPath: "/invalidate-token"}
	log := logger.Discard()
	h := auth.NewHandler(tokens, store, nil, log, auth.CookieOptions{})
	roles := auth.NewCachedRoleResolver(store, cache.NewService(nil), time.Minute)

	engine := gin.New()
	engine.Use(h.InvalidationFilter(paths.InvalidationPath))
	engine.Use(Authorize(DefaultAccessPolicy(paths.InvalidationPath), tokens, roles, log))
	auth.SetupAuthRoutes(engine, h, paths)
	engine.GET("/admin/members", func(c *gin.Context) { c.String(http.StatusOK, "members") })
	engine.GET("/api/member", func(c *gin.Context) {
		sub, _ := Subject(c)
		c.String(http.StatusOK, sub)
	})
	return engine
}

func login(t *testing.T, engine http.Handler, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return strings.TrimPrefix(rec.Header().Get("Authorization"), "Bearer ")
}

func TestFullChain(t *testing.T) {
	engine := newFullChain(t)

	member := login(t, engine, "hong@example.com", "password123")
	admin := login(t, engine, "admin@example.com", "qwaszx")

	rec := call(engine, http.MethodGet, "/api/member", member)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hong@example.com", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, call(engine, http.MethodGet, "/admin/members", member).Code)
	assert.Equal(t, http.StatusOK, call(engine, http.MethodGet, "/admin/members", admin).Code)

	rec = call(engine, http.MethodGet, "/invalidate-token", member)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "refreshToken=;")

	// without a bearer header the path falls through to authorization
	rec = call(engine, http.MethodGet, "/invalidate-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}
