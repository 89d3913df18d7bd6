package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidationState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		path   string
		header string
		want   filterState
	}{
		{"bearer on path", "/invalidate-token", "Bearer xyz", stateInvalidate},
		{"no header", "/invalidate-token", "", statePassthrough},
		{"basic scheme", "/invalidate-token", "Basic abc", statePassthrough},
		{"lowercase scheme", "/invalidate-token", "bearer xyz", statePassthrough},
		{"other path", "/admin/members", "Bearer xyz", statePassthrough},
		{"longer path", "/invalidate-token/now", "Bearer xyz", statePassthrough},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, invalidationState(req, "/invalidate-token"))
		})
	}
}

func TestInvalidationFilter_ClearsCookie(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/invalidate-token", nil)
	req.Header.Set("Authorization", "Bearer xyz")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, RefreshCookieName, ck.Name)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
	assert.Equal(t, "/", ck.Path)
	assert.True(t, ck.HttpOnly)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestInvalidationFilter_ClearsSubjectCookies(t *testing.T) {
	engine, h, _ := newTestEngine(t)
	name := RefreshCookiePrefix + h.tokens.DeriveCookieName("hong@example.com")

	req := httptest.NewRequest(http.MethodPost, "/invalidate-token", nil)
	req.Header.Set("Authorization", "Bearer expired-or-not")
	req.AddCookie(&http.Cookie{Name: name, Value: "whatever"})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	require.NotNil(t, findCookie(cookies, RefreshCookieName))
	subjectCookie := findCookie(cookies, name)
	require.NotNil(t, subjectCookie)
	assert.Empty(t, subjectCookie.Value)
	assert.Equal(t, -1, subjectCookie.MaxAge)
}

func TestInvalidationFilter_PassthroughWithoutHeader(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/invalidate-token", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	// no route is registered for the path itself
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestInvalidationFilter_PassthroughOtherPaths(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/downstream", nil)
	req.Header.Set("Authorization", "Bearer xyz")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reached", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}
