// Package services – OffenceService
//
// OffenceService keeps per-user moderation counters (caps, emoji, urls) for
// each channel and service. Records are created on the first counter update;
// the create and the increment are single statements, so two first writes
// for the same user never produce two records.
package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeOffences = "offences"

// OffenceRepo defines the repository contract required by OffenceService.
type OffenceRepo interface {
	// GetOffences fetches the counters of one user.
	GetOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (*domain.UserOffences, error)

	// ListOffences returns the counters of every user on a service.
	ListOffences(ctx context.Context, db *gorm.DB, channel, service string) ([]domain.UserOffences, error)

	// CreateOffences inserts a zeroed record; an existing one is a duplicate.
	CreateOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (*domain.UserOffences, error)

	// EnsureOffences inserts a zeroed record unless one exists and reports
	// whether it did.
	EnsureOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (bool, error)

	// ApplyOffence applies a delta to one counter column and returns the result.
	ApplyOffence(ctx context.Context, db *gorm.DB, channel, service, user, column string, d domain.Delta) (int32, error)
}

// OffenceService provides offence counter operations.
type OffenceService struct {
	g gate
	// Repo is the offence repository used by this service.
	Repo OffenceRepo
}

func offenceAttrs(channel, service, user string) []attribute.KeyValue {
	return attrs(channelAttr(channel),
		attribute.String("service", service),
		attribute.String("user", user))
}

// Get returns the counters of user.
func (s *OffenceService) Get(ctx context.Context, channel, service, user string) (*domain.UserOffences, error) {
	service = foldService(service)
	var out *domain.UserOffences
	err := s.g.run(ctx, storeOffences, "get", offenceAttrs(channel, service, user), func(tx *gorm.DB) error {
		o, err := s.Repo.GetOffences(ctx, tx, channel, service, user)
		if err != nil {
			return translate(err, ErrOffencesNotFound, nil)
		}
		out = o
		return nil
	})
	return out, err
}

// List returns the counters of every user on service, possibly none.
func (s *OffenceService) List(ctx context.Context, channel, service string) ([]domain.UserOffences, error) {
	service = foldService(service)
	var out []domain.UserOffences
	kv := attrs(channelAttr(channel), attribute.String("service", service))
	err := s.g.run(ctx, storeOffences, "list", kv, func(tx *gorm.DB) error {
		items, err := s.Repo.ListOffences(ctx, tx, channel, service)
		out = items
		return err
	})
	return out, err
}

// GetAttribute reads one counter of record by name.
func (s *OffenceService) GetAttribute(record domain.UserOffences, name string) (int32, error) {
	v, ok := record.Attribute(name)
	if !ok {
		return 0, ErrInvalidAttribute
	}
	return v, nil
}

// Create inserts a zeroed record. An existing record yields ErrOffencesExist.
func (s *OffenceService) Create(ctx context.Context, channel, service, user string) (*domain.UserOffences, error) {
	service = foldService(service)
	var out *domain.UserOffences
	err := s.g.run(ctx, storeOffences, "create", offenceAttrs(channel, service, user), func(tx *gorm.DB) error {
		o, err := s.Repo.CreateOffences(ctx, tx, channel, service, user)
		if err != nil {
			return translate(err, nil, ErrOffencesExist)
		}
		out = o
		return nil
	})
	return out, err
}

// UpdateOffence applies delta to the counter called name (caps, emoji or
// urls), creating the record first if needed, and returns the updated record.
// A result outside the int32 range is rolled back and yields ErrInvalidCount.
func (s *OffenceService) UpdateOffence(ctx context.Context, channel, service, user, name, delta string) (*domain.UserOffences, error) {
	service = foldService(service)
	column, ok := domain.OffenceColumn(name)
	if !ok {
		return nil, s.g.reject(ctx, storeOffences, "update", ErrInvalidAttribute)
	}
	d, err := ParseDelta(delta)
	if err != nil {
		return nil, s.g.reject(ctx, storeOffences, "update", err)
	}

	var out *domain.UserOffences
	kv := append(offenceAttrs(channel, service, user),
		attribute.String("attribute", name),
		attribute.String("delta", d.String()))
	err = s.g.run(ctx, storeOffences, "update", kv, func(tx *gorm.DB) error {
		if _, err := s.Repo.EnsureOffences(ctx, tx, channel, service, user); err != nil {
			return err
		}
		if _, err := s.Repo.ApplyOffence(ctx, tx, channel, service, user, column, d); err != nil {
			return countResult(err)
		}
		o, err := s.Repo.GetOffences(ctx, tx, channel, service, user)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}
