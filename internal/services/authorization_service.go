package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeAuthorizations = "authorization"

// AuthorizationRepo defines the repository contract required by
// AuthorizationService.
type AuthorizationRepo interface {
	GetAuthorization(ctx context.Context, db *gorm.DB, channel, service string) (*domain.Authorization, error)

	// UpsertAuthorization inserts or fully replaces the token set of a service.
	UpsertAuthorization(ctx context.Context, db *gorm.DB, channel, service, access, refresh, expiration string) error
}

// AuthorizationService stores the token set a channel holds for each
// external service.
type AuthorizationService struct {
	g    gate
	Repo AuthorizationRepo
}

// Get returns the token set of service.
func (s *AuthorizationService) Get(ctx context.Context, channel, service string) (*domain.Authorization, error) {
	service = foldService(service)
	var out *domain.Authorization
	kv := attrs(channelAttr(channel), attribute.String("service", service))
	err := s.g.run(ctx, storeAuthorizations, "get", kv, func(tx *gorm.DB) error {
		a, err := s.Repo.GetAuthorization(ctx, tx, channel, service)
		if err != nil {
			return translate(err, ErrAuthorizationNotFound, nil)
		}
		out = a
		return nil
	})
	return out, err
}

// Update inserts or fully replaces the token set of service. A nil refresh
// or expiration is stored as "".
func (s *AuthorizationService) Update(ctx context.Context, channel, service, access string, refresh, expiration *string) error {
	service = foldService(service)
	if strings.TrimSpace(access) == "" {
		return s.g.reject(ctx, storeAuthorizations, "update", ErrMissingAccessToken)
	}
	kv := attrs(channelAttr(channel), attribute.String("service", service))
	return s.g.run(ctx, storeAuthorizations, "update", kv, func(tx *gorm.DB) error {
		return s.Repo.UpsertAuthorization(ctx, tx, channel, service, access, deref(refresh), deref(expiration))
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
