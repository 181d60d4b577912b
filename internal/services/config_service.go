package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeConfigs = "configs"

// ConfigRepo defines the repository contract required by ConfigService.
type ConfigRepo interface {
	GetConfig(ctx context.Context, db *gorm.DB, channel string) (*domain.Config, error)
}

// ConfigService reads channel configuration. Writes happen elsewhere.
type ConfigService struct {
	g    gate
	Repo ConfigRepo
}

// Get returns the configuration of channel.
func (s *ConfigService) Get(ctx context.Context, channel string) (*domain.Config, error) {
	var out *domain.Config
	err := s.g.run(ctx, storeConfigs, "get", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
		c, err := s.Repo.GetConfig(ctx, tx, channel)
		if err != nil {
			return translate(err, ErrConfigNotFound, nil)
		}
		out = c
		return nil
	})
	return out, err
}
