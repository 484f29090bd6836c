package cache

import (
	"context"
	"testing"
	"time"

	"github.com/LgendSourabie/blango/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *models.AuthToken) func() error {
		return func() error {
			fetches++
			dest.Key = "abc123"
			dest.UserID = 7
			return nil
		}
	}

	var tok models.AuthToken
	err := Aside(ctx, TokenKey("abc123"), &tok, TokenTTL, fetch(&tok))
	require.NoError(t, err)
	assert.Equal(t, uint(7), tok.UserID)
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache.
	var again models.AuthToken
	err = Aside(ctx, TokenKey("abc123"), &again, TokenTTL, fetch(&again))
	require.NoError(t, err)
	assert.Equal(t, uint(7), again.UserID)
	assert.Equal(t, 1, fetches)
}

func TestAside_NilClientAlwaysFetches(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var count int64
	err := Aside(ctx, PostCountKey, &count, PostCountTTL, func() error {
		fetches++
		count = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)

	err = Aside(ctx, PostCountKey, &count, PostCountTTL, func() error {
		fetches++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestInvalidate(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), &models.Post{ID: 3, Title: "t"}, PostTTL))
	require.True(t, mr.Exists("post:3"))

	InvalidatePost(ctx, 3)
	assert.False(t, mr.Exists("post:3"))
}

func TestSetJSON_TTL(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(1), &models.User{ID: 1, Email: "user1@gmail.com"}, UserTTL))

	mr.FastForward(UserTTL + time.Second)

	var u models.User
	found, err := GetJSON(ctx, UserKey(1), &u)
	require.NoError(t, err)
	assert.False(t, found)
}
