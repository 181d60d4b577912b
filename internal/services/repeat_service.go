// Package services – RepeatService
//
// RepeatService manages scheduled repeats: a named entry that posts one of
// the channel's commands every Interval seconds. Unlike aliases, the command
// is checked when the repeat is created; removing the command later removes
// its repeats.
package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeRepeats = "repeats"

// RepeatRepo defines the repository contract required by RepeatService.
type RepeatRepo interface {
	// CreateRepeat inserts an enabled repeat.
	CreateRepeat(ctx context.Context, db *gorm.DB, channel, name, command, arguments string, interval int32) (*domain.Repeat, error)

	// GetRepeat fetches a repeat by channel and name.
	GetRepeat(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Repeat, error)

	// ListRepeats returns the repeats of a channel ordered by name.
	ListRepeats(ctx context.Context, db *gorm.DB, channel string) ([]domain.Repeat, error)

	// DeleteRepeat removes a repeat, failing with not-found when absent.
	DeleteRepeat(ctx context.Context, db *gorm.DB, channel, name string) error

	// GetCommand checks the command a repeat refers to.
	GetCommand(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Command, error)
}

// RepeatService provides repeat-level operations.
type RepeatService struct {
	g gate
	// Repo is the repeat repository used by this service.
	Repo RepeatRepo
}

func repeatAttrs(channel, name string) []attribute.KeyValue {
	return attrs(channelAttr(channel), attribute.String("repeat", name))
}

// List returns every repeat of channel, possibly none.
func (s *RepeatService) List(ctx context.Context, channel string) ([]domain.Repeat, error) {
	var out []domain.Repeat
	err := s.g.run(ctx, storeRepeats, "list", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
		items, err := s.Repo.ListRepeats(ctx, tx, channel)
		out = items
		return err
	})
	return out, err
}

// Get returns the repeat called name.
func (s *RepeatService) Get(ctx context.Context, channel, name string) (*domain.Repeat, error) {
	var out *domain.Repeat
	err := s.g.run(ctx, storeRepeats, "get", repeatAttrs(channel, name), func(tx *gorm.DB) error {
		r, err := s.Repo.GetRepeat(ctx, tx, channel, name)
		if err != nil {
			return translate(err, ErrRepeatNotFound, nil)
		}
		out = r
		return nil
	})
	return out, err
}

// Create schedules command every interval seconds under name. An existing
// name yields ErrRepeatExists, an unknown command ErrMissingCommand and an
// interval below one ErrInvalidInterval.
func (s *RepeatService) Create(ctx context.Context, channel, name, command, arguments string, interval int32) (*domain.Repeat, error) {
	if interval < 1 {
		return nil, s.g.reject(ctx, storeRepeats, "create", ErrInvalidInterval)
	}

	var out *domain.Repeat
	kv := append(repeatAttrs(channel, name),
		attribute.String("command", command),
		attribute.Int("interval", int(interval)))
	err := s.g.run(ctx, storeRepeats, "create", kv, func(tx *gorm.DB) error {
		if _, err := s.Repo.GetRepeat(ctx, tx, channel, name); err == nil {
			return ErrRepeatExists
		} else if !isNotFound(err) {
			return err
		}
		if _, err := s.Repo.GetCommand(ctx, tx, channel, command); err != nil {
			return translate(err, ErrMissingCommand, nil)
		}
		r, err := s.Repo.CreateRepeat(ctx, tx, channel, name, command, arguments, interval)
		if err != nil {
			return translate(err, nil, ErrRepeatExists)
		}
		out = r
		return nil
	})
	return out, err
}

// Delete removes the repeat called name, or yields ErrRepeatNotFound.
func (s *RepeatService) Delete(ctx context.Context, channel, name string) error {
	return s.g.run(ctx, storeRepeats, "delete", repeatAttrs(channel, name), func(tx *gorm.DB) error {
		return translate(s.Repo.DeleteRepeat(ctx, tx, channel, name), ErrRepeatNotFound, nil)
	})
}
