package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// CreateRepeat inserts an enabled repeat that posts command every interval
// seconds. An existing (channel, name) pair fails with ErrDuplicate.
func CreateRepeat(ctx context.Context, db *gorm.DB, channel, name, command, arguments string, interval int32) (*domain.Repeat, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	r := &domain.Repeat{
		ID:        id,
		Channel:   channel,
		Name:      name,
		Command:   command,
		Arguments: arguments,
		Interval:  interval,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, wrap(err, "create repeat")
	}
	return r, nil
}

// GetRepeat fetches a repeat by channel and name, or ErrNotFound.
func GetRepeat(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Repeat, error) {
	var r domain.Repeat
	err := db.WithContext(ctx).
		Where("channel = ? AND name = ?", channel, name).
		First(&r).Error
	if err != nil {
		return nil, wrap(err, "get repeat")
	}
	return &r, nil
}

// ListRepeats returns the repeats of a channel ordered by name.
func ListRepeats(ctx context.Context, db *gorm.DB, channel string) ([]domain.Repeat, error) {
	out := []domain.Repeat{}
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("name asc").
		Find(&out).Error
	return out, wrap(err, "list repeats")
}

// DeleteRepeat removes a repeat. Returns ErrNotFound if none matched.
func DeleteRepeat(ctx context.Context, db *gorm.DB, channel, name string) error {
	res := db.WithContext(ctx).
		Where("channel = ? AND name = ?", channel, name).
		Delete(&domain.Repeat{})
	return affected(res, "delete repeat")
}

// DeleteRepeatsFor removes every repeat of a channel that posts command and
// returns how many were removed.
func DeleteRepeatsFor(ctx context.Context, db *gorm.DB, channel, command string) (int64, error) {
	res := db.WithContext(ctx).
		Where("channel = ? AND command = ?", channel, command).
		Delete(&domain.Repeat{})
	return res.RowsAffected, wrap(res.Error, "delete repeats")
}
