package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// CreateAlias inserts an alias pointing at command. The target is not
// checked. An existing (channel, alias) pair fails with ErrDuplicate.
func CreateAlias(ctx context.Context, db *gorm.DB, channel, alias, command string) (*domain.Alias, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	a := &domain.Alias{
		ID:        id,
		Channel:   channel,
		AliasName: alias,
		Command:   command,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, wrap(err, "create alias")
	}
	return a, nil
}

// GetAlias fetches an alias by channel and name, or ErrNotFound.
func GetAlias(ctx context.Context, db *gorm.DB, channel, alias string) (*domain.Alias, error) {
	var a domain.Alias
	err := db.WithContext(ctx).
		Where("channel = ? AND alias_name = ?", channel, alias).
		First(&a).Error
	if err != nil {
		return nil, wrap(err, "get alias")
	}
	return &a, nil
}

// ListAliases returns the aliases of a channel ordered by alias name.
func ListAliases(ctx context.Context, db *gorm.DB, channel string) ([]domain.Alias, error) {
	out := []domain.Alias{}
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("alias_name asc").
		Find(&out).Error
	return out, wrap(err, "list aliases")
}

// DeleteAlias removes an alias. Deleting a missing alias is not an error.
func DeleteAlias(ctx context.Context, db *gorm.DB, channel, alias string) error {
	err := db.WithContext(ctx).
		Where("channel = ? AND alias_name = ?", channel, alias).
		Delete(&domain.Alias{}).Error
	return wrap(err, "delete alias")
}

// DeleteAliasesTo removes every alias of a channel that targets command and
// returns how many were removed.
func DeleteAliasesTo(ctx context.Context, db *gorm.DB, channel, command string) (int64, error) {
	res := db.WithContext(ctx).
		Where("channel = ? AND command = ?", channel, command).
		Delete(&domain.Alias{})
	return res.RowsAffected, wrap(res.Error, "delete aliases")
}
