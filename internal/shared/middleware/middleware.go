package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shopadmin/internal/auth"
	"shopadmin/internal/shared/metrics"
	"shopadmin/pkg/logger"
)

// Context keys set by Authorize
const (
	ContextSubject = "subject"
	ContextRoles   = "roles"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

// Authorize enforces policy before any handler runs. Requests matching no
// rule continue untouched.
func Authorize(policy *AccessPolicy, tokens auth.TokenValidator, roles auth.RoleResolver, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rule, ok := policy.Match(c.Request.Method, c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}

		subject, err := bearerSubject(c, tokens)
		if err != nil {
			message := ErrUnauthenticated.Error()
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "token expired"
			}
			deny(c, http.StatusUnauthorized, "Unauthenticated", message, rule.Role, "unauthenticated")
			return
		}

		held, err := roles.ResolveRoles(c.Request.Context(), subject)
		if err != nil {
			if errors.Is(err, auth.ErrCredentialNotFound) {
				deny(c, http.StatusUnauthorized, "Unauthenticated", ErrUnauthenticated.Error(), rule.Role, "unauthenticated")
				return
			}
			log.ErrorContext(c.Request.Context(), "role lookup failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Unavailable", "message": "authorization service unavailable"})
			return
		}

		if rule.Role != "" && !slices.Contains(held, rule.Role) {
			log.LogAccessDenied(c.Request.Context(), subject, c.Request.URL.Path, rule.Role)
			deny(c, http.StatusForbidden, "Forbidden", ErrForbidden.Error(), rule.Role, "forbidden")
			return
		}

		metrics.AuthorizationDecisionsTotal.WithLabelValues(rule.Role, "allowed").Inc()
		c.Set(ContextSubject, subject)
		c.Set(ContextRoles, held)
		c.Next()
	}
}

func bearerSubject(c *gin.Context, tokens auth.TokenValidator) (string, error) {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		return "", ErrUnauthenticated
	}
	return tokens.Validate(strings.TrimSpace(raw))
}

func deny(c *gin.Context, status int, title, message, role, decision string) {
	metrics.AuthorizationDecisionsTotal.WithLabelValues(role, decision).Inc()
	c.AbortWithStatusJSON(status, gin.H{"error": title, "message": message})
}

// Subject returns the subject stored by Authorize
func Subject(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextSubject)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// RequestLogger logs every request once it completes
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}

// Metrics records request latency by route pattern
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
