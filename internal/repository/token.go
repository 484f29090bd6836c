package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/LgendSourabie/blango/internal/cache"
	"github.com/LgendSourabie/blango/internal/models"

	"gorm.io/gorm"
)

// TokenRepository resolves opaque auth token keys to their bound user and
// manages token issuance. It is the lookup-table abstraction behind the auth
// gate; nothing else reads the token table.
type TokenRepository interface {
	// Resolve returns the token bound to key, or (nil, nil) when the key is
	// not registered.
	Resolve(ctx context.Context, key string) (*models.AuthToken, error)
	// GetOrCreate returns the user's existing token, minting one on first use.
	GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Resolve(ctx context.Context, key string) (*models.AuthToken, error) {
	if key == "" {
		return nil, nil
	}

	var token models.AuthToken
	err := cache.Aside(ctx, cache.TokenKey(key), &token, cache.TokenTTL, func() error {
		if err := r.db.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	key, err := generateTokenKey()
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	token = models.AuthToken{Key: key, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

// generateTokenKey mints a 40-character hex key from 20 random bytes.
func generateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
