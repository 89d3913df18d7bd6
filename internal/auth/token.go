package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"shopadmin/internal/shared/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// tokenClaims carries exactly one subject and one expiry; typ separates access from refresh tokens
type tokenClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenValidator resolves a bearer access token to its subject
type TokenValidator interface {
	Validate(token string) (string, error)
}

// TokenProvider issues and validates HS256 tokens. It is read-only after construction
// and safe for concurrent use.
type TokenProvider struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

func NewTokenProvider(cfg config.JWTConfig) (*TokenProvider, error) {
	if len(cfg.Secret) < config.MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &TokenProvider{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

func (p *TokenProvider) AccessTTL() time.Duration { return p.accessTTL }

func (p *TokenProvider) RefreshTTL() time.Duration { return p.refreshTTL }

func (p *TokenProvider) IssueAccessToken(subject string) (string, error) {
	return p.issue(subject, tokenTypeAccess, p.accessTTL)
}

func (p *TokenProvider) IssueRefreshToken(subject string) (string, error) {
	return p.issue(subject, tokenTypeRefresh, p.refreshTTL)
}

// DeriveCookieName maps a subject to a stable cookie-safe suffix. It is not secret.
func (p *TokenProvider) DeriveCookieName(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Validate checks an access token and returns its subject
func (p *TokenProvider) Validate(token string) (string, error) {
	return p.validate(token, tokenTypeAccess)
}

// ValidateRefresh checks a refresh token and returns its subject
func (p *TokenProvider) ValidateRefresh(token string) (string, error) {
	return p.validate(token, tokenTypeRefresh)
}

func (p *TokenProvider) issue(subject, tokenType string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	now := p.now()
	claims := tokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (p *TokenProvider) validate(raw, tokenType string) (string, error) {
	if raw == "" {
		return "", ErrInvalidToken
	}

	var claims tokenClaims
	token, err := p.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		// jwt/v4 validates claims before the signature, so a forged token can also report expiry.
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) && errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Type != tokenType || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
