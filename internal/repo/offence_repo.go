// Repository functions for per-user offence counters.

package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const offenceKey = "channel = ? AND service = ? AND user_name = ?"

// GetOffences fetches the counters of user on service within channel, or
// ErrNotFound.
func GetOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (*domain.UserOffences, error) {
	var o domain.UserOffences
	err := db.WithContext(ctx).
		Where(offenceKey, channel, service, user).
		First(&o).Error
	if err != nil {
		return nil, wrap(err, "get offences")
	}
	return &o, nil
}

// ListOffences returns the counters of every user on service within channel,
// ordered by user.
func ListOffences(ctx context.Context, db *gorm.DB, channel, service string) ([]domain.UserOffences, error) {
	out := []domain.UserOffences{}
	err := db.WithContext(ctx).
		Where("channel = ? AND service = ?", channel, service).
		Order("user_name asc").
		Find(&out).Error
	return out, wrap(err, "list offences")
}

func newOffences(channel, service, user string) (*domain.UserOffences, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &domain.UserOffences{
		ID:        id,
		Channel:   channel,
		Service:   service,
		User:      user,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CreateOffences inserts a zeroed record. An existing record fails with
// ErrDuplicate.
func CreateOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (*domain.UserOffences, error) {
	o, err := newOffences(channel, service, user)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, wrap(err, "create offences")
	}
	return o, nil
}

// EnsureOffences inserts a zeroed record unless one already exists. It
// reports whether a row was created.
func EnsureOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (bool, error) {
	o, err := newOffences(channel, service, user)
	if err != nil {
		return false, err
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel"}, {Name: "service"}, {Name: "user_name"}},
			DoNothing: true,
		}).
		Create(o)
	if res.Error != nil {
		return false, wrap(res.Error, "ensure offences")
	}
	return res.RowsAffected > 0, nil
}

// ApplyOffence applies d to the counter column of an existing record in a
// single UPDATE and returns the stored result. Returns ErrNotFound if the
// record is missing and ErrOverflow if the result leaves the int32 range.
func ApplyOffence(ctx context.Context, db *gorm.DB, channel, service, user, column string, d domain.Delta) (int32, error) {
	res := db.WithContext(ctx).
		Model(&domain.UserOffences{}).
		Where(offenceKey, channel, service, user).
		Updates(map[string]any{
			column:       deltaExpr(column, d),
			"updated_at": time.Now().UTC(),
		})
	if err := affected(res, "update offence"); err != nil {
		return 0, err
	}
	return readCounter(ctx, db.Model(&domain.UserOffences{}).
		Where(offenceKey, channel, service, user), column)
}
