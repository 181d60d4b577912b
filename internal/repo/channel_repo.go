package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// GetChannelByToken fetches a channel by its unique token. If no channel has
// that token, it returns ErrNotFound.
func GetChannelByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Channel, error) {
	var c domain.Channel
	err := db.WithContext(ctx).
		Where("token = ?", token).
		First(&c).Error
	if err != nil {
		return nil, wrap(err, "get channel")
	}
	return &c, nil
}

// CreateChannel inserts an enabled channel with the given token and encoded
// password hash. The ID is a random UUID and timestamps are set to UTC now.
//
// A second channel with the same token fails with ErrDuplicate.
func CreateChannel(ctx context.Context, db *gorm.DB, token, passwordHash string) (*domain.Channel, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Channel{
		ID:           id,
		Token:        token,
		PasswordHash: passwordHash,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, wrap(err, "create channel")
	}
	return c, nil
}
