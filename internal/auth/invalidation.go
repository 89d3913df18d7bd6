package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopadmin/internal/audit"
	"shopadmin/internal/shared/metrics"
)

type filterState int

const (
	statePassthrough filterState = iota
	stateInvalidate
)

// invalidationState enters INVALIDATE only for the exact path with a Bearer header
func invalidationState(r *http.Request, path string) filterState {
	if r.URL.Path != path {
		return statePassthrough
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		return statePassthrough
	}
	return stateInvalidate
}

// InvalidationFilter clears the refresh cookie and ends the request on the
// invalidation path. The bearer token is not validated. Every other request
// passes through untouched.
func (h *Handler) InvalidationFilter(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if invalidationState(c.Request, path) == statePassthrough {
			c.Next()
			return
		}

		clearCookie(c, RefreshCookieName, h.cookies)
		cleared := 1
		for _, ck := range refreshCookies(c.Request) {
			clearCookie(c, ck.Name, h.cookies)
			cleared++
		}

		ctx := c.Request.Context()
		metrics.TokenInvalidationsTotal.Inc()
		h.log.LogTokenInvalidated(ctx, c.ClientIP(), cleared)
		h.recorder.Record(ctx, audit.EventTokenInvalidated, "", map[string]string{"ip": c.ClientIP()})

		c.AbortWithStatus(http.StatusOK)
	}
}
