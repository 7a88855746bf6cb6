package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, prefix), mr
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, "estate")

	_, err := s.Get(ctx, "listings:featured")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "listings:featured", []byte("payload"), time.Minute))
	assert.True(t, mr.Exists("estate:listings:featured"), "key should carry the prefix")
	assert.Equal(t, time.Minute, mr.TTL("estate:listings:featured"))

	got, err := s.Get(ctx, "listings:featured")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, s.Delete(ctx, "listings:featured"))
	_, err = s.Get(ctx, "listings:featured")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, "")

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Second))
	mr.FastForward(11 * time.Second)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_ServerError(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, "")
	mr.SetError("LOADING dataset in memory")

	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
	assert.Error(t, s.Set(ctx, "k", []byte("v"), time.Second))
	assert.Error(t, s.Ping(ctx))
}
