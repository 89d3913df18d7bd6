package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers a missing field, an unknown user and a wrong password alike
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrWeakSecret         = errors.New("signing secret is too short")
	ErrEmptySubject       = errors.New("token subject must not be empty")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrMissingRefresh     = errors.New("refresh cookie not present")
)
