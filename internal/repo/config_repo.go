package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// GetConfig fetches the moderation and event config of a channel, or
// ErrNotFound.
func GetConfig(ctx context.Context, db *gorm.DB, channel string) (*domain.Config, error) {
	var c domain.Config
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		First(&c).Error
	if err != nil {
		return nil, wrap(err, "get config")
	}
	return &c, nil
}
