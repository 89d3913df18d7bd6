package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopadmin/internal/shared/constants"
	"shopadmin/pkg/cache"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// NormalizeRole upper-cases a role name and strips a ROLE_ prefix
func NormalizeRole(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.TrimPrefix(name, "ROLE_")
}

// RoleResolver returns the normalized role names held by a subject
type RoleResolver interface {
	ResolveRoles(ctx context.Context, subject string) ([]string, error)
}

// CachedRoleResolver reads roles through the credential store and caches them in Redis
type CachedRoleResolver struct {
	store CredentialStore
	cache cache.Service
	ttl   time.Duration
}

func NewCachedRoleResolver(store CredentialStore, c cache.Service, ttl time.Duration) *CachedRoleResolver {
	if ttl <= 0 {
		ttl = constants.TTL_MEMBER_ROLES
	}
	return &CachedRoleResolver{store: store, cache: c, ttl: ttl}
}

func (r *CachedRoleResolver) ResolveRoles(ctx context.Context, subject string) ([]string, error) {
	var roles []string
	err := r.cache.GetOrSet(ctx, constants.BuildMemberRolesKey(subject), r.ttl, func() (interface{}, error) {
		cred, err := r.store.FindSubject(ctx, subject)
		if err != nil {
			return nil, err
		}
		normalized := make([]string, 0, len(cred.Roles))
		for _, role := range cred.Roles {
			normalized = append(normalized, NormalizeRole(role))
		}
		return normalized, nil
	}, &roles)
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}
	return roles, nil
}

// Evict drops a subject's cached roles after a grant or revoke
func (r *CachedRoleResolver) Evict(ctx context.Context, subject string) error {
	return r.cache.Delete(ctx, constants.BuildMemberRolesKey(subject))
}

// EvictAll drops every cached role set, used when a role itself is removed
func (r *CachedRoleResolver) EvictAll(ctx context.Context) error {
	return r.cache.DeletePattern(ctx, constants.PATTERN_MEMBER_ROLES)
}
