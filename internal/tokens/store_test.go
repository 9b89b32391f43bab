package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
}

func TestSaveAndConsume(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", 42))

	userID, err := store.Consume(ctx, "jti-1")
	require.NoError(t, err)
	require.Equal(t, uint(42), userID)

	// A jti is single-use.
	_, err = store.Consume(ctx, "jti-1")
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestConsumeUnknownJTI(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Consume(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRevoke(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", 42))
	require.NoError(t, store.Revoke(ctx, "jti-1"))

	_, err := store.Consume(ctx, "jti-1")
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestExpiredJTI(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", 42))
	mr.FastForward(2 * time.Minute)

	_, err := store.Consume(ctx, "jti-1")
	require.ErrorIs(t, err, ErrTokenRevoked)
}
