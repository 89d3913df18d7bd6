package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credential is the read-only view of a member the login flow needs
type Credential struct {
	Subject      string
	PasswordHash string
	Roles        []string
}

// CredentialStore looks members up. FindCredential accepts a login name (e-mail
// or username); FindSubject matches a token subject exactly.
type CredentialStore interface {
	FindCredential(ctx context.Context, login string) (*Credential, error)
	FindSubject(ctx context.Context, subject string) (*Credential, error)
}

// Authenticator verifies a username/password pair against the store
type Authenticator struct {
	store CredentialStore
}

func NewAuthenticator(store CredentialStore) *Authenticator {
	return &Authenticator{store: store}
}

// Authenticate returns the subject for valid credentials. Unknown users and wrong
// passwords both yield ErrInvalidCredentials; store failures are returned wrapped.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	cred, err := a.store.FindCredential(ctx, username)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			// Burn a comparison so unknown users cost the same as wrong passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return cred.Subject, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("shopadmin-unknown-member"), bcrypt.DefaultCost)
