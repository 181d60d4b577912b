package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// CreateTrust marks user as trusted in channel. Trusting the same user twice
// fails with ErrDuplicate.
func CreateTrust(ctx context.Context, db *gorm.DB, channel, user string) (*domain.Trust, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	t := &domain.Trust{
		ID:          id,
		Channel:     channel,
		TrustedUser: user,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, wrap(err, "create trust")
	}
	return t, nil
}

// GetTrust fetches the trust of user in channel, or ErrNotFound.
func GetTrust(ctx context.Context, db *gorm.DB, channel, user string) (*domain.Trust, error) {
	var t domain.Trust
	err := db.WithContext(ctx).
		Where("channel = ? AND trusted_user = ?", channel, user).
		First(&t).Error
	if err != nil {
		return nil, wrap(err, "get trust")
	}
	return &t, nil
}

// ListTrusts returns the trusted users of a channel, oldest first.
func ListTrusts(ctx context.Context, db *gorm.DB, channel string) ([]domain.Trust, error) {
	out := []domain.Trust{}
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("created_at asc, trusted_user asc").
		Find(&out).Error
	return out, wrap(err, "list trusts")
}

// DeleteTrust removes the trust of user in channel. Returns ErrNotFound if
// the user was not trusted.
func DeleteTrust(ctx context.Context, db *gorm.DB, channel, user string) error {
	res := db.WithContext(ctx).
		Where("channel = ? AND trusted_user = ?", channel, user).
		Delete(&domain.Trust{})
	return affected(res, "delete trust")
}
