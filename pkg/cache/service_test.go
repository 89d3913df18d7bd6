package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopService_AlwaysFetches(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	var out []string
	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []string{"ADMIN", "MEMBER"}, nil
	}

	require.NoError(t, svc.GetOrSet(ctx, "k", time.Minute, fetch, &out))
	require.NoError(t, svc.GetOrSet(ctx, "k", time.Minute, fetch, &out))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"ADMIN", "MEMBER"}, out)

	assert.ErrorIs(t, svc.Get(ctx, "k", &out), ErrCacheMiss)
	assert.NoError(t, svc.Delete(ctx, "k"))
	assert.NoError(t, svc.DeletePattern(ctx, "k*"))
}

func TestNoopService_FetcherError(t *testing.T) {
	boom := errors.New("boom")
	var out string
	err := NewService(nil).GetOrSet(context.Background(), "k", time.Minute, func() (interface{}, error) {
		return nil, boom
	}, &out)
	assert.ErrorIs(t, err, boom)
}
