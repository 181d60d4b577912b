package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// UpsertSocial stores the link of service for channel, replacing the URL of
// an existing link, and returns the stored row.
func UpsertSocial(ctx context.Context, db *gorm.DB, channel, service, url string) (*domain.SocialService, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &domain.SocialService{
		ID:        id,
		Channel:   channel,
		Service:   service,
		URL:       url,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel"}, {Name: "service"}},
			DoUpdates: clause.AssignmentColumns([]string{"url", "updated_at"}),
		}).
		Create(s).Error
	if err != nil {
		return nil, wrap(err, "upsert social")
	}
	// On conflict the existing row keeps its id and created_at.
	return GetSocial(ctx, db, channel, service)
}

// GetSocial fetches the link of service for channel, or ErrNotFound.
func GetSocial(ctx context.Context, db *gorm.DB, channel, service string) (*domain.SocialService, error) {
	var s domain.SocialService
	err := db.WithContext(ctx).
		Where("channel = ? AND service = ?", channel, service).
		First(&s).Error
	if err != nil {
		return nil, wrap(err, "get social")
	}
	return &s, nil
}

// ListSocials returns the links of a channel ordered by service.
func ListSocials(ctx context.Context, db *gorm.DB, channel string) ([]domain.SocialService, error) {
	out := []domain.SocialService{}
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("service asc").
		Find(&out).Error
	return out, wrap(err, "list socials")
}

// DeleteSocial removes the link of service. Deleting a missing link is not an
// error.
func DeleteSocial(ctx context.Context, db *gorm.DB, channel, service string) error {
	err := db.WithContext(ctx).
		Where("channel = ? AND service = ?", channel, service).
		Delete(&domain.SocialService{}).Error
	return wrap(err, "delete social")
}
