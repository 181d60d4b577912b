package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeSocials = "socials"

// SocialRepo defines the repository contract required by SocialService.
type SocialRepo interface {
	UpsertSocial(ctx context.Context, db *gorm.DB, channel, service, url string) (*domain.SocialService, error)
	GetSocial(ctx context.Context, db *gorm.DB, channel, service string) (*domain.SocialService, error)
	ListSocials(ctx context.Context, db *gorm.DB, channel string) ([]domain.SocialService, error)
	DeleteSocial(ctx context.Context, db *gorm.DB, channel, service string) error
}

// SocialService manages the external links of a channel, at most one per
// service.
type SocialService struct {
	g    gate
	Repo SocialRepo
}

func socialAttrs(channel, service string) []attribute.KeyValue {
	return attrs(channelAttr(channel), attribute.String("service", service))
}

// Create stores url for service, replacing any previous link.
func (s *SocialService) Create(ctx context.Context, channel, service, url string) (*domain.SocialService, error) {
	service = foldService(service)
	var out *domain.SocialService
	err := s.g.run(ctx, storeSocials, "create", socialAttrs(channel, service), func(tx *gorm.DB) error {
		row, err := s.Repo.UpsertSocial(ctx, tx, channel, service, url)
		out = row
		return err
	})
	return out, err
}

// Get returns the link stored for service.
func (s *SocialService) Get(ctx context.Context, channel, service string) (*domain.SocialService, error) {
	service = foldService(service)
	var out *domain.SocialService
	err := s.g.run(ctx, storeSocials, "get", socialAttrs(channel, service), func(tx *gorm.DB) error {
		row, err := s.Repo.GetSocial(ctx, tx, channel, service)
		if err != nil {
			return translate(err, ErrSocialNotFound, nil)
		}
		out = row
		return nil
	})
	return out, err
}

// List returns every link of channel, possibly none.
func (s *SocialService) List(ctx context.Context, channel string) ([]domain.SocialService, error) {
	var out []domain.SocialService
	err := s.g.run(ctx, storeSocials, "list", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
		items, err := s.Repo.ListSocials(ctx, tx, channel)
		out = items
		return err
	})
	return out, err
}

// Delete removes the link of service. Deleting a missing link succeeds.
func (s *SocialService) Delete(ctx context.Context, channel, service string) error {
	service = foldService(service)
	return s.g.run(ctx, storeSocials, "delete", socialAttrs(channel, service), func(tx *gorm.DB) error {
		return s.Repo.DeleteSocial(ctx, tx, channel, service)
	})
}
