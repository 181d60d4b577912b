// Repository functions for commands and their counters.

package repo

import (
	"context"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// ListCommands returns every command of a channel ordered by name. It returns
// an empty slice when the channel has none.
func ListCommands(ctx context.Context, db *gorm.DB, channel string) ([]domain.Command, error) {
	out := []domain.Command{}
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("name asc").
		Find(&out).Error
	return out, wrap(err, "list commands")
}

// GetCommand fetches a single command by channel and name, or ErrNotFound.
func GetCommand(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Command, error) {
	var c domain.Command
	err := db.WithContext(ctx).
		Where("channel = ? AND name = ?", channel, name).
		First(&c).Error
	if err != nil {
		return nil, wrap(err, "get command")
	}
	return &c, nil
}

// CreateCommand inserts a command with fresh metadata: no author, no
// cooldown, count zero, enabled, and the given role.
//
// An existing (channel, name) pair fails with ErrDuplicate.
func CreateCommand(ctx context.Context, db *gorm.DB, channel, name string, response []domain.Component, services []string, role string) (*domain.Command, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	if response == nil {
		response = []domain.Component{}
	}
	if services == nil {
		services = []string{}
	}
	now := time.Now().UTC()
	c := &domain.Command{
		ID:       id,
		Channel:  channel,
		Name:     name,
		Response: datatypes.JSONSlice[domain.Component](response),
		Services: datatypes.JSONSlice[string](services),
		Meta: domain.CommandMeta{
			Enabled: true,
			Role:    role,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, wrap(err, "create command")
	}
	return c, nil
}

// UpdateCommandResponse replaces the response of a command. Metadata and
// timestamps are left untouched. Returns ErrNotFound if no command matched.
func UpdateCommandResponse(ctx context.Context, db *gorm.DB, channel, name string, response []domain.Component) error {
	if response == nil {
		response = []domain.Component{}
	}
	res := db.WithContext(ctx).
		Model(&domain.Command{}).
		Where("channel = ? AND name = ?", channel, name).
		UpdateColumn("response", datatypes.JSONSlice[domain.Component](response))
	return affected(res, "update command response")
}

// SetCommandEnabled sets meta.enabled of a command. Returns ErrNotFound if no
// command matched.
func SetCommandEnabled(ctx context.Context, db *gorm.DB, channel, name string, enabled bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Command{}).
		Where("channel = ? AND name = ?", channel, name).
		UpdateColumn("meta_enabled", enabled)
	return affected(res, "update command state")
}

// DeleteCommand removes a command. Returns ErrNotFound if no command matched.
// Aliases are not touched; see DeleteAliasesTo.
func DeleteCommand(ctx context.Context, db *gorm.DB, channel, name string) error {
	res := db.WithContext(ctx).
		Where("channel = ? AND name = ?", channel, name).
		Delete(&domain.Command{})
	return affected(res, "delete command")
}

// ApplyCommandCount applies d to meta.count of a command in a single UPDATE
// and returns the stored result. Returns ErrNotFound if no command matched
// and ErrOverflow if the result leaves the int32 range; in the latter case
// the row has already been written and the caller must roll back.
func ApplyCommandCount(ctx context.Context, db *gorm.DB, channel, name string, d domain.Delta) (int32, error) {
	res := db.WithContext(ctx).
		Model(&domain.Command{}).
		Where("channel = ? AND name = ?", channel, name).
		UpdateColumn("meta_count", deltaExpr("meta_count", d))
	if err := affected(res, "update command count"); err != nil {
		return 0, err
	}
	return readCounter(ctx, db.Model(&domain.Command{}).
		Where("channel = ? AND name = ?", channel, name), "meta_count")
}

// deltaExpr renders d as the right-hand side of "SET column = ...".
func deltaExpr(column string, d domain.Delta) any {
	switch d.Op {
	case domain.DeltaAdd:
		return gorm.Expr(column+" + ?", int64(d.Amount))
	case domain.DeltaSub:
		return gorm.Expr(column+" - ?", int64(d.Amount))
	default:
		return int64(d.Amount)
	}
}

// readCounter loads a single integer column from the row selected by q and
// checks that it fits an int32.
func readCounter(ctx context.Context, q *gorm.DB, column string) (int32, error) {
	var v int64
	if err := q.WithContext(ctx).Select(column).Row().Scan(&v); err != nil {
		return 0, wrap(err, "read "+column)
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, ErrOverflow
	}
	return int32(v), nil
}
