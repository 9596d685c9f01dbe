package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChallengeStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newMemoryChallengeStore(func() time.Time { return now })

	id := uuid.New()
	require.NoError(t, store.Save(ctx, id, "a1b2c3", time.Minute))

	code, err := store.Consume(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3", code)

	_, err = store.Consume(ctx, id)
	assert.ErrorIs(t, err, ErrChallengeNotFound, "challenges are single use")

	require.NoError(t, store.Save(ctx, id, "ffffff", time.Minute))
	now = now.Add(2 * time.Minute)
	_, err = store.Consume(ctx, id)
	assert.ErrorIs(t, err, ErrChallengeNotFound, "expired challenge")
}

func TestMemoryChallengeStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChallengeStore()
	id := uuid.New()

	require.NoError(t, store.Save(ctx, id, "000000", time.Minute))
	require.NoError(t, store.Save(ctx, id, "111111", time.Minute))

	code, err := store.Consume(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "111111", code)
}

func TestRedisChallengeStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewRedisChallengeStore(rdb)
	id := uuid.New()

	require.NoError(t, store.Save(ctx, id, "deadbe", time.Minute))
	assert.True(t, mr.Exists(challengeKeyPrefix+id.String()))

	code, err := store.Consume(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "deadbe", code)
	assert.False(t, mr.Exists(challengeKeyPrefix+id.String()))

	_, err = store.Consume(ctx, id)
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	require.NoError(t, store.Save(ctx, id, "c0ffee", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = store.Consume(ctx, id)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}
