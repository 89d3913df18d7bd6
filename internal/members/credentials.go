package members

import (
	"context"
	"errors"

	"shopadmin/internal/auth"
)

// credentialStore exposes members to the login flow. The subject is the member's e-mail.
type credentialStore struct {
	repo Repository
}

func NewCredentialStore(repo Repository) auth.CredentialStore {
	return &credentialStore{repo: repo}
}

func (s *credentialStore) FindCredential(ctx context.Context, login string) (*auth.Credential, error) {
	return toCredential(s.repo.GetByLogin(ctx, login))
}

func (s *credentialStore) FindSubject(ctx context.Context, subject string) (*auth.Credential, error) {
	return toCredential(s.repo.GetByEmail(ctx, subject))
}

func toCredential(member *Member, err error) (*auth.Credential, error) {
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, err
	}
	return &auth.Credential{
		Subject:      member.Email,
		PasswordHash: member.Password,
		Roles:        member.RoleNames(),
	}, nil
}
