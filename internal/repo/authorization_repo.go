package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// GetAuthorization fetches the token set of service for channel, or
// ErrNotFound.
func GetAuthorization(ctx context.Context, db *gorm.DB, channel, service string) (*domain.Authorization, error) {
	var a domain.Authorization
	err := db.WithContext(ctx).
		Where("channel = ? AND service = ?", channel, service).
		First(&a).Error
	if err != nil {
		return nil, wrap(err, "get authorization")
	}
	return &a, nil
}

// UpsertAuthorization inserts or replaces the token set of service for
// channel in one statement. All three token fields are overwritten.
func UpsertAuthorization(ctx context.Context, db *gorm.DB, channel, service, access, refresh, expiration string) error {
	id, err := newID()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	a := &domain.Authorization{
		ID:         id,
		Channel:    channel,
		Service:    service,
		Access:     access,
		Refresh:    refresh,
		Expiration: expiration,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel"}, {Name: "service"}},
			DoUpdates: clause.AssignmentColumns([]string{"access", "refresh", "expiration", "updated_at"}),
		}).
		Create(a).Error
	return wrap(err, "upsert authorization")
}
