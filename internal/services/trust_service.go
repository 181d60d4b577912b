package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeTrusts = "trusts"

// TrustRepo defines the repository contract required by TrustService.
type TrustRepo interface {
	// CreateTrust trusts a user; a second insert fails as a duplicate.
	CreateTrust(ctx context.Context, db *gorm.DB, channel, user string) (*domain.Trust, error)

	// GetTrust fetches the trust entry of a user.
	GetTrust(ctx context.Context, db *gorm.DB, channel, user string) (*domain.Trust, error)

	// ListTrusts returns every trusted user of a channel.
	ListTrusts(ctx context.Context, db *gorm.DB, channel string) ([]domain.Trust, error)

	// DeleteTrust revokes a trust, failing with not-found when absent.
	DeleteTrust(ctx context.Context, db *gorm.DB, channel, user string) error
}

// TrustService manages the privileged users of a channel.
type TrustService struct {
	g gate
	// Repo is the trust repository used by this service.
	Repo TrustRepo
}

func trustAttrs(channel, user string) []attribute.KeyValue {
	return attrs(channelAttr(channel), attribute.String("user", user))
}

// Create trusts user. Trusting a user twice yields ErrAlreadyTrusted.
func (s *TrustService) Create(ctx context.Context, channel, user string) (*domain.Trust, error) {
	var out *domain.Trust
	err := s.g.run(ctx, storeTrusts, "create", trustAttrs(channel, user), func(tx *gorm.DB) error {
		t, err := s.Repo.CreateTrust(ctx, tx, channel, user)
		if err != nil {
			return translate(err, nil, ErrAlreadyTrusted)
		}
		out = t
		return nil
	})
	return out, err
}

// Get returns the trust entry of user.
func (s *TrustService) Get(ctx context.Context, channel, user string) (*domain.Trust, error) {
	var out *domain.Trust
	err := s.g.run(ctx, storeTrusts, "get", trustAttrs(channel, user), func(tx *gorm.DB) error {
		t, err := s.Repo.GetTrust(ctx, tx, channel, user)
		if err != nil {
			return translate(err, ErrTrustNotFound, nil)
		}
		out = t
		return nil
	})
	return out, err
}

// List returns every trusted user of channel, possibly none.
func (s *TrustService) List(ctx context.Context, channel string) ([]domain.Trust, error) {
	var out []domain.Trust
	err := s.g.run(ctx, storeTrusts, "list", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
		items, err := s.Repo.ListTrusts(ctx, tx, channel)
		out = items
		return err
	})
	return out, err
}

// Delete revokes the trust of user, or yields ErrTrustNotFound.
func (s *TrustService) Delete(ctx context.Context, channel, user string) error {
	return s.g.run(ctx, storeTrusts, "delete", trustAttrs(channel, user), func(tx *gorm.DB) error {
		return translate(s.Repo.DeleteTrust(ctx, tx, channel, user), ErrTrustNotFound, nil)
	})
}
