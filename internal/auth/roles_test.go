package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopadmin/pkg/cache"
)

// mapCache is an in-memory cache.Service
type mapCache struct {
	items map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{items: map[string][]byte{}} }

func (m *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func (m *mapCache) DeletePattern(context.Context, string) error {
	m.items = map[string][]byte{}
	return nil
}

func (m *mapCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	}
	v, err := fetcher()
	if err != nil {
		return err
	}
	if err := m.Set(ctx, key, v, ttl); err != nil {
		return err
	}
	return m.Get(ctx, key, dest)
}

func TestNormalizeRole(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ADMIN", NormalizeRole("ROLE_ADMIN"))
	assert.Equal(t, "ADMIN", NormalizeRole(" admin "))
	assert.Equal(t, "MEMBER", NormalizeRole("role_member"))
}

func TestCachedRoleResolver_CachesUntilEvicted(t *testing.T) {
	store := newStubStore(t)
	store.creds["legacy@example.com"] = &Credential{Subject: "legacy@example.com", Roles: []string{"ROLE_ADMIN"}}
	r := NewCachedRoleResolver(store, newMapCache(), time.Minute)
	ctx := context.Background()

	roles, err := r.ResolveRoles(ctx, "legacy@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN"}, roles)

	_, err = r.ResolveRoles(ctx, "legacy@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)

	require.NoError(t, r.Evict(ctx, "legacy@example.com"))
	_, err = r.ResolveRoles(ctx, "legacy@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)

	require.NoError(t, r.EvictAll(ctx))
	_, err = r.ResolveRoles(ctx, "legacy@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, store.calls)
}

func TestCachedRoleResolver_UnknownSubject(t *testing.T) {
	r := NewCachedRoleResolver(newStubStore(t), cache.NewService(nil), 0)

	_, err := r.ResolveRoles(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestCachedRoleResolver_UsernameEqualToAnotherEmail(t *testing.T) {
	store := newStubStore(t)
	// the username of this member is the admin's e-mail
	store.add(t, "kim@example.com", "admin@example.com", "password123", RoleMember)
	r := NewCachedRoleResolver(store, cache.NewService(nil), 0)

	roles, err := r.ResolveRoles(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{RoleAdmin, RoleMember}, roles)
}
