package repository

import (
	"context"
	"testing"

	"github.com/LgendSourabie/blango/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "user1@gmail.com", Password: "hashed"}
	require.NoError(t, db.Create(user).Error)

	t.Run("GetOrCreate mints on first use", func(t *testing.T) {
		token, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, token.Key, 40)
		assert.Equal(t, user.ID, token.UserID)
	})

	t.Run("GetOrCreate is stable", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)
		second, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Key, second.Key)
	})

	t.Run("Resolve known key", func(t *testing.T) {
		minted, err := repo.GetOrCreate(ctx, user.ID)
		require.NoError(t, err)

		token, err := repo.Resolve(ctx, minted.Key)
		assert.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, user.ID, token.UserID)
	})

	t.Run("Resolve unknown key", func(t *testing.T) {
		token, err := repo.Resolve(ctx, "0000000000000000000000000000000000000000")
		assert.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("Resolve empty key", func(t *testing.T) {
		token, err := repo.Resolve(ctx, "")
		assert.NoError(t, err)
		assert.Nil(t, token)
	})
}

func TestGenerateTokenKey(t *testing.T) {
	a, err := generateTokenKey()
	require.NoError(t, err)
	b, err := generateTokenKey()
	require.NoError(t, err)

	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)
}
