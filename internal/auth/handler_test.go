package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invalidCredentialsBody = `{"error":"Authentication failed","message":"invalid username or password"}`

func TestLogin_FormSuccess(t *testing.T) {
	engine, h, _ := newTestEngine(t)

	rec := postForm(engine, "/token", url.Values{"username": {"hong@example.com"}, "password": {"password123"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Authentication successful"}`, rec.Body.String())

	authz := rec.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(authz, "Bearer "), authz)
	sub, err := h.tokens.Validate(strings.TrimPrefix(authz, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, "hong@example.com", sub)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, RefreshCookiePrefix+h.tokens.DeriveCookieName("hong@example.com"), ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, int(h.tokens.RefreshTTL().Seconds()), ck.MaxAge)

	refreshSub, err := h.tokens.ValidateRefresh(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "hong@example.com", refreshSub)
}

func TestLogin_ByUsername(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec := postForm(engine, "/token", url.Values{"username": {"admin"}, "password": {"qwaszx"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Authorization"))
}

func TestLogin_JSONSuccess(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/token",
		strings.NewReader(`{"username":"hong@example.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Authorization"))
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLogin_Failures(t *testing.T) {
	cases := []struct {
		name string
		form url.Values
	}{
		{"wrong password", url.Values{"username": {"hong@example.com"}, "password": {"nope"}}},
		{"missing password", url.Values{"username": {"hong@example.com"}}},
		{"missing username", url.Values{"password": {"password123"}}},
		{"unknown user", url.Values{"username": {"ghost@example.com"}, "password": {"password123"}}},
		{"empty body", url.Values{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, _, _ := newTestEngine(t)

			rec := postForm(engine, "/token", tc.form)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, invalidCredentialsBody, rec.Body.String())
			assert.Empty(t, rec.Header().Get("Authorization"))
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLogin_MissingFieldSkipsStore(t *testing.T) {
	engine, _, store := newTestEngine(t)

	postForm(engine, "/token", url.Values{"username": {"hong@example.com"}})
	assert.Equal(t, 0, store.calls)
}

func TestLogin_MalformedJSON(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(`{"username":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, invalidCredentialsBody, rec.Body.String())
}

func TestLogin_StoreFailure(t *testing.T) {
	engine, _, store := newTestEngine(t)
	store.err = errStoreDown

	rec := postForm(engine, "/token", url.Values{"username": {"hong@example.com"}, "password": {"password123"}})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication failed","message":"authentication service unavailable"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func loginCookie(t *testing.T, engine http.Handler, username, password string) *http.Cookie {
	t.Helper()
	rec := postForm(engine, "/token", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func refreshWith(engine http.Handler, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/token/refresh", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRefresh_RoundTrip(t *testing.T) {
	engine, h, _ := newTestEngine(t)
	ck := loginCookie(t, engine, "hong@example.com", "password123")

	rec := refreshWith(engine, &http.Cookie{Name: ck.Name, Value: ck.Value})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Token refreshed"}`, rec.Body.String())
	sub, err := h.tokens.Validate(strings.TrimPrefix(rec.Header().Get("Authorization"), "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, "hong@example.com", sub)
}

func TestRefresh_MissingCookie(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rec := refreshWith(engine)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication failed","message":"refresh token missing"}`, rec.Body.String())
}

func TestRefresh_CookieNameMustMatchSubject(t *testing.T) {
	engine, h, _ := newTestEngine(t)
	ck := loginCookie(t, engine, "hong@example.com", "password123")

	swapped := &http.Cookie{Name: RefreshCookiePrefix + h.tokens.DeriveCookieName("admin@example.com"), Value: ck.Value}
	rec := refreshWith(engine, swapped)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Authorization"))
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	engine, h, _ := newTestEngine(t)
	access, err := h.tokens.IssueAccessToken("hong@example.com")
	require.NoError(t, err)

	rec := refreshWith(engine, &http.Cookie{Name: RefreshCookiePrefix + h.tokens.DeriveCookieName("hong@example.com"), Value: access})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication failed","message":"refresh token invalid"}`, rec.Body.String())
}

func TestRefresh_DeletedMember(t *testing.T) {
	engine, _, store := newTestEngine(t)
	ck := loginCookie(t, engine, "hong@example.com", "password123")
	store.remove("hong@example.com")

	rec := refreshWith(engine, &http.Cookie{Name: ck.Name, Value: ck.Value})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
