package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"shopadmin/internal/audit"
	"shopadmin/internal/shared/metrics"
	"shopadmin/pkg/logger"
)

const (
	msgAuthFailed     = "Authentication failed"
	msgAuthSuccess    = "Authentication successful"
	msgTokenRefreshed = "Token refreshed"
	msgUnavailable    = "authentication service unavailable"
)

// loginRequest is the JSON form of a login; form posts use the same field names
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Handler serves the login, refresh and invalidation endpoints
type Handler struct {
	tokens        *TokenProvider
	authenticator *Authenticator
	store         CredentialStore
	recorder      *audit.Recorder
	log           *logger.Logger
	cookies       CookieOptions
}

func NewHandler(tokens *TokenProvider, store CredentialStore, recorder *audit.Recorder, log *logger.Logger, cookies CookieOptions) *Handler {
	return &Handler{
		tokens:        tokens,
		authenticator: NewAuthenticator(store),
		store:         store,
		recorder:      recorder,
		log:           log,
		cookies:       cookies,
	}
}

// Login authenticates a username/password pair and issues one access token
// (Authorization header) and one refresh token (HttpOnly cookie).
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	username, password := obtainCredentials(c)

	subject, err := h.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		h.unsuccessfulAuthentication(c, err)
		return
	}

	access, err := h.tokens.IssueAccessToken(subject)
	if err != nil {
		h.unsuccessfulAuthentication(c, err)
		return
	}
	refresh, err := h.tokens.IssueRefreshToken(subject)
	if err != nil {
		h.unsuccessfulAuthentication(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+access)
	setRefreshCookie(c, RefreshCookiePrefix+h.tokens.DeriveCookieName(subject), refresh, h.tokens.RefreshTTL(), h.cookies)

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.log.LogAuthSuccess(ctx, subject, "password")
	h.recorder.Record(ctx, audit.EventLoginSucceeded, subject, map[string]string{"ip": c.ClientIP()})

	c.JSON(http.StatusOK, gin.H{"message": msgAuthSuccess})
}

func (h *Handler) unsuccessfulAuthentication(c *gin.Context, err error) {
	ctx := c.Request.Context()
	message := ErrInvalidCredentials.Error()
	result := "invalid_credentials"
	if !errors.Is(err, ErrInvalidCredentials) {
		message = msgUnavailable
		result = "error"
		h.log.ErrorContext(ctx, "login failed", slog.String("error", err.Error()))
	}

	metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()
	h.log.LogAuthFailure(ctx, result, c.ClientIP())
	h.recorder.Record(ctx, audit.EventLoginFailed, "", map[string]string{"ip": c.ClientIP(), "reason": result})

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgAuthFailed, "message": message})
}

// obtainCredentials reads username and password from a JSON body or a form post
func obtainCredentials(c *gin.Context) (string, string) {
	if strings.HasPrefix(c.ContentType(), binding.MIMEJSON) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", ""
		}
		return req.Username, req.Password
	}
	return c.PostForm("username"), c.PostForm("password")
}

// Refresh exchanges a valid refresh cookie for a new access token. The cookie
// suffix must match the token's subject and the member must still exist.
func (h *Handler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	subject, err := h.subjectFromRefreshCookie(c)
	if err == nil {
		if _, err = h.store.FindSubject(ctx, subject); errors.Is(err, ErrCredentialNotFound) {
			err = ErrInvalidToken
		}
	}
	if err != nil {
		h.rejectRefresh(c, err)
		return
	}

	access, err := h.tokens.IssueAccessToken(subject)
	if err != nil {
		h.rejectRefresh(c, err)
		return
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	h.recorder.Record(ctx, audit.EventTokenRefreshed, subject, nil)

	c.Header("Authorization", "Bearer "+access)
	c.JSON(http.StatusOK, gin.H{"message": msgTokenRefreshed})
}

func (h *Handler) subjectFromRefreshCookie(c *gin.Context) (string, error) {
	candidates := refreshCookies(c.Request)
	if len(candidates) == 0 {
		return "", ErrMissingRefresh
	}

	lastErr := ErrInvalidToken
	for _, ck := range candidates {
		subject, err := h.tokens.ValidateRefresh(ck.Value)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimPrefix(ck.Name, RefreshCookiePrefix) != h.tokens.DeriveCookieName(subject) {
			lastErr = ErrInvalidToken
			continue
		}
		return subject, nil
	}
	return "", lastErr
}

func (h *Handler) rejectRefresh(c *gin.Context, err error) {
	var message string
	switch {
	case errors.Is(err, ErrMissingRefresh):
		message = "refresh token missing"
	case errors.Is(err, ErrTokenExpired):
		message = "refresh token expired"
	case errors.Is(err, ErrInvalidToken):
		message = "refresh token invalid"
	default:
		message = msgUnavailable
		h.log.ErrorContext(c.Request.Context(), "token refresh failed", slog.String("error", err.Error()))
	}

	metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgAuthFailed, "message": message})
}
