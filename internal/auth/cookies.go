package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// RefreshCookiePrefix is followed by DeriveCookieName(subject)
	RefreshCookiePrefix = "refreshToken_"
	// RefreshCookieName is the fixed name the invalidation filter always clears
	RefreshCookieName = "refreshToken"
)

// CookieOptions controls attributes of the refresh cookie
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

func setRefreshCookie(c *gin.Context, name, value string, ttl time.Duration, opts CookieOptions) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// clearCookie emits Max-Age=0 so the browser drops the cookie immediately
func clearCookie(c *gin.Context, name string, opts CookieOptions) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// refreshCookies returns the request's refreshToken_* cookies
func refreshCookies(r *http.Request) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range r.Cookies() {
		if strings.HasPrefix(ck.Name, RefreshCookiePrefix) && len(ck.Name) > len(RefreshCookiePrefix) {
			out = append(out, ck)
		}
	}
	return out
}
