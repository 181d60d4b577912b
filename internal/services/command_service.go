// Package services – CommandService
//
// CommandService manages chat commands: CRUD, the usage counter (changed only
// through a delta such as "+1", "-2" or "@10") and the enabled flag. Removing
// a command removes the aliases and repeats that point at it in the same
// transaction.
package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeCommands = "commands"

// CommandRepo defines the repository contract required by CommandService.
type CommandRepo interface {
	// ListCommands returns every command of a channel ordered by name.
	ListCommands(ctx context.Context, db *gorm.DB, channel string) ([]domain.Command, error)

	// GetCommand fetches a command by channel and name.
	GetCommand(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Command, error)

	// CreateCommand inserts a command with default meta.
	CreateCommand(ctx context.Context, db *gorm.DB, channel, name string, response []domain.Component, services []string, role string) (*domain.Command, error)

	// UpdateCommandResponse replaces the response, keeping meta.
	UpdateCommandResponse(ctx context.Context, db *gorm.DB, channel, name string, response []domain.Component) error

	// SetCommandEnabled sets meta.enabled.
	SetCommandEnabled(ctx context.Context, db *gorm.DB, channel, name string, enabled bool) error

	// DeleteCommand removes a command.
	DeleteCommand(ctx context.Context, db *gorm.DB, channel, name string) error

	// ApplyCommandCount applies a delta to meta.count and returns the result.
	ApplyCommandCount(ctx context.Context, db *gorm.DB, channel, name string, d domain.Delta) (int32, error)

	// DeleteAliasesTo removes the aliases that target a command.
	DeleteAliasesTo(ctx context.Context, db *gorm.DB, channel, command string) (int64, error)

	// DeleteRepeatsFor removes the repeats that post a command.
	DeleteRepeatsFor(ctx context.Context, db *gorm.DB, channel, command string) (int64, error)
}

// CommandService provides command-level operations.
type CommandService struct {
	g gate
	// Repo is the command repository used by this service.
	Repo CommandRepo
}

func commandAttrs(channel, name string) []attribute.KeyValue {
	return attrs(channelAttr(channel), attribute.String("command", name))
}

// List returns every command of channel. It never fails with NotFound.
func (s *CommandService) List(ctx context.Context, channel string) ([]domain.Command, error) {
	var out []domain.Command
	err := s.g.run(ctx, storeCommands, "list", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
		items, err := s.Repo.ListCommands(ctx, tx, channel)
		out = items
		return err
	})
	return out, err
}

// Get returns the command called name.
func (s *CommandService) Get(ctx context.Context, channel, name string) (*domain.Command, error) {
	var out *domain.Command
	err := s.g.run(ctx, storeCommands, "get", commandAttrs(channel, name), func(tx *gorm.DB) error {
		c, err := s.Repo.GetCommand(ctx, tx, channel, name)
		if err != nil {
			return translate(err, ErrCommandNotFound, nil)
		}
		out = c
		return nil
	})
	return out, err
}

// Create adds a command. Meta starts as {addedBy: "", cooldown: 0, count: 0,
// enabled: true, role}. An existing name yields ErrCommandExists.
func (s *CommandService) Create(ctx context.Context, channel, name string, response []domain.Component, services []string, role string) (*domain.Command, error) {
	var out *domain.Command
	err := s.g.run(ctx, storeCommands, "create", commandAttrs(channel, name), func(tx *gorm.DB) error {
		if _, err := s.Repo.GetCommand(ctx, tx, channel, name); err == nil {
			return ErrCommandExists
		} else if !isNotFound(err) {
			return err
		}
		c, err := s.Repo.CreateCommand(ctx, tx, channel, name, response, services, role)
		if err != nil {
			return translate(err, nil, ErrCommandExists)
		}
		out = c
		return nil
	})
	return out, err
}

// Update replaces the response of a command. Meta and timestamps are kept.
func (s *CommandService) Update(ctx context.Context, channel, name string, response []domain.Component) error {
	return s.g.run(ctx, storeCommands, "update", commandAttrs(channel, name), func(tx *gorm.DB) error {
		return translate(s.Repo.UpdateCommandResponse(ctx, tx, channel, name, response), ErrCommandNotFound, nil)
	})
}

// Remove deletes a command together with every alias and repeat targeting it.
func (s *CommandService) Remove(ctx context.Context, channel, name string) error {
	return s.g.run(ctx, storeCommands, "remove", commandAttrs(channel, name), func(tx *gorm.DB) error {
		if err := s.Repo.DeleteCommand(ctx, tx, channel, name); err != nil {
			return translate(err, ErrCommandNotFound, nil)
		}
		if _, err := s.Repo.DeleteAliasesTo(ctx, tx, channel, name); err != nil {
			return err
		}
		_, err := s.Repo.DeleteRepeatsFor(ctx, tx, channel, name)
		return err
	})
}

// UpdateCount applies delta to the usage counter and returns the new value.
// Malformed deltas yield ErrInvalidOperator or ErrInvalidCount without
// touching the database. A result outside the int32 range is rolled back and
// yields ErrInvalidCount.
func (s *CommandService) UpdateCount(ctx context.Context, channel, name, delta string) (int32, error) {
	d, err := ParseDelta(delta)
	if err != nil {
		return 0, s.g.reject(ctx, storeCommands, "update_count", err)
	}

	var out int32
	kv := append(commandAttrs(channel, name), attribute.String("delta", d.String()))
	err = s.g.run(ctx, storeCommands, "update_count", kv, func(tx *gorm.DB) error {
		n, err := s.Repo.ApplyCommandCount(ctx, tx, channel, name, d)
		if err != nil {
			return countResult(translate(err, ErrCommandNotFound, nil))
		}
		out = n
		return nil
	})
	return out, err
}

// UpdateState sets the enabled flag and returns its previous value.
func (s *CommandService) UpdateState(ctx context.Context, channel, name string, enabled bool) (bool, error) {
	var prev bool
	kv := append(commandAttrs(channel, name), attribute.Bool("enabled", enabled))
	err := s.g.run(ctx, storeCommands, "update_state", kv, func(tx *gorm.DB) error {
		c, err := s.Repo.GetCommand(ctx, tx, channel, name)
		if err != nil {
			return translate(err, ErrCommandNotFound, nil)
		}
		prev = c.Meta.Enabled
		return s.Repo.SetCommandEnabled(ctx, tx, channel, name, enabled)
	})
	return prev, err
}
