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

type cachedUser struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Credits int    `json:"credits"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestAside(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss loads and stores", func(t *testing.T) {
		mr := withMiniredis(t)

		loads := 0
		var got cachedUser
		err := Aside(ctx, UserKey(1), &got, UserTTL, func() error {
			loads++
			got = cachedUser{ID: 1, Email: "u@example.com", Credits: 100}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, loads)
		assert.True(t, mr.Exists(UserKey(1)))

		// Second read is served from the cache.
		var again cachedUser
		err = Aside(ctx, UserKey(1), &again, UserTTL, func() error {
			loads++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, loads)
		assert.Equal(t, got, again)
	})

	t.Run("Entry expires with TTL", func(t *testing.T) {
		mr := withMiniredis(t)

		loads := 0
		load := func() error {
			loads++
			return nil
		}

		var dest cachedUser
		require.NoError(t, Aside(ctx, UserKey(2), &dest, time.Minute, load))
		mr.FastForward(2 * time.Minute)
		require.NoError(t, Aside(ctx, UserKey(2), &dest, time.Minute, load))
		assert.Equal(t, 2, loads)
	})

	t.Run("Corrupt entry falls back to load", func(t *testing.T) {
		mr := withMiniredis(t)
		require.NoError(t, mr.Set(UserKey(3), "{not json"))

		loads := 0
		var dest cachedUser
		err := Aside(ctx, UserKey(3), &dest, UserTTL, func() error {
			loads++
			dest = cachedUser{ID: 3, Email: "fresh@example.com", Credits: 50}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, loads)
		assert.Equal(t, uint(3), dest.ID)

		// The bad entry was replaced with the loaded value.
		raw, err := mr.Get(UserKey(3))
		require.NoError(t, err)
		assert.Contains(t, raw, "fresh@example.com")
	})

	t.Run("Load error is returned and nothing cached", func(t *testing.T) {
		mr := withMiniredis(t)

		var dest cachedUser
		err := Aside(ctx, UserKey(4), &dest, UserTTL, func() error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, mr.Exists(UserKey(4)))
	})

	t.Run("Nil client degrades to load only", func(t *testing.T) {
		SetClient(nil)

		loads := 0
		var dest cachedUser
		err := Aside(ctx, UserKey(5), &dest, UserTTL, func() error {
			loads++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, loads)
	})
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	mr := withMiniredis(t)

	require.NoError(t, mr.Set(UserKey(7), `{"id":7}`))
	require.NoError(t, mr.Set(PromptListKey, `[]`))
	require.NoError(t, mr.Set(FeaturedPromptsKey, `[]`))

	InvalidateUser(ctx, 7)
	assert.False(t, mr.Exists(UserKey(7)))

	InvalidatePrompts(ctx)
	assert.False(t, mr.Exists(PromptListKey))
	assert.False(t, mr.Exists(FeaturedPromptsKey))
}
