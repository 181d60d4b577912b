package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeAliases = "aliases"

// AliasRepo defines the repository contract required by AliasService.
type AliasRepo interface {
	// CreateAlias inserts an alias without checking its target.
	CreateAlias(ctx context.Context, db *gorm.DB, channel, alias, command string) (*domain.Alias, error)

	// GetAlias fetches an alias by channel and name.
	GetAlias(ctx context.Context, db *gorm.DB, channel, alias string) (*domain.Alias, error)

	// ListAliases returns the aliases of a channel ordered by name.
	ListAliases(ctx context.Context, db *gorm.DB, channel string) ([]domain.Alias, error)

	// DeleteAlias removes an alias; a missing one is not an error.
	DeleteAlias(ctx context.Context, db *gorm.DB, channel, alias string) error

	// GetCommand resolves an alias target.
	GetCommand(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Command, error)
}

// AliasService maps alternate names onto commands. Targets are weak
// references: they are not checked on create and may dangle after the
// command is removed.
type AliasService struct {
	g    gate
	Repo AliasRepo
}

func aliasAttrs(channel, alias string) []attribute.KeyValue {
	return attrs(channelAttr(channel), attribute.String("alias", alias))
}

// Create adds alias for command. A second alias with the same name yields
// ErrAliasExists.
func (s *AliasService) Create(ctx context.Context, channel, alias, command string) (*domain.Alias, error) {
	var out *domain.Alias
	kv := append(aliasAttrs(channel, alias), attribute.String("command", command))
	err := s.g.run(ctx, storeAliases, "create", kv, func(tx *gorm.DB) error {
		a, err := s.Repo.CreateAlias(ctx, tx, channel, alias, command)
		if err != nil {
			return translate(err, nil, ErrAliasExists)
		}
		out = a
		return nil
	})
	return out, err
}

// Resolve returns the command alias points at. Aliases are not chained: the
// target is looked up once as a command name. A missing alias yields
// ErrAliasNotFound and a dangling one ErrCommandNotFound.
func (s *AliasService) Resolve(ctx context.Context, channel, alias string) (*domain.Command, error) {
	var out *domain.Command
	err := s.g.run(ctx, storeAliases, "resolve", aliasAttrs(channel, alias), func(tx *gorm.DB) error {
		a, err := s.Repo.GetAlias(ctx, tx, channel, alias)
		if err != nil {
			return translate(err, ErrAliasNotFound, nil)
		}
		c, err := s.Repo.GetCommand(ctx, tx, channel, a.Command)
		if err != nil {
			return translate(err, ErrCommandNotFound, nil)
		}
		out = c
		return nil
	})
	return out, err
}

// List resolves every alias of channel to its command, in alias name order.
// Dangling aliases are skipped.
func (s *AliasService) List(ctx context.Context, channel string) ([]domain.Command, error) {
	out := []domain.Command{}
	err := s.g.run(ctx, storeAliases, "list", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
		aliases, err := s.Repo.ListAliases(ctx, tx, channel)
		if err != nil {
			return err
		}
		for _, a := range aliases {
			c, err := s.Repo.GetCommand(ctx, tx, channel, a.Command)
			if isNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes alias. Deleting a missing alias succeeds.
func (s *AliasService) Delete(ctx context.Context, channel, alias string) error {
	return s.g.run(ctx, storeAliases, "delete", aliasAttrs(channel, alias), func(tx *gorm.DB) error {
		return s.Repo.DeleteAlias(ctx, tx, channel, alias)
	})
}
