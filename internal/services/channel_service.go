// Package services – ChannelService
//
// ChannelService signs channels up and looks them up by token. Passwords are
// hashed with the configured CredentialHasher before the repository lock is
// taken, so a slow hash never stalls other operations.
package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
	"github.com/tbourn/go-botconfig-backend/internal/repo"
)

const storeChannels = "channels"

// CredentialHasher hashes and verifies channel passwords.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}

// ChannelRepo defines the repository contract required by ChannelService.
type ChannelRepo interface {
	// GetChannelByToken fetches a channel by its unique token.
	GetChannelByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Channel, error)

	// CreateChannel inserts an enabled channel with an already hashed password.
	CreateChannel(ctx context.Context, db *gorm.DB, token, passwordHash string) (*domain.Channel, error)

	// CollectChannelStats counts the rows each collection holds for a channel.
	CollectChannelStats(ctx context.Context, db *gorm.DB, channel string) (repo.ChannelStats, error)
}

// ChannelService manages channel signup and lookup.
type ChannelService struct {
	g gate
	// Repo is the channel repository used by this service.
	Repo   ChannelRepo
	hasher CredentialHasher

	decoyOnce sync.Once
	decoyHash string
}

// GetByToken returns the channel whose token equals token.
func (s *ChannelService) GetByToken(ctx context.Context, token string) (*domain.Channel, error) {
	var out *domain.Channel
	err := s.g.run(ctx, storeChannels, "get", attrs(channelAttr(token)), func(tx *gorm.DB) error {
		c, err := s.Repo.GetChannelByToken(ctx, tx, token)
		if err != nil {
			return translate(err, ErrChannelNotFound, nil)
		}
		out = c
		return nil
	})
	return out, err
}

// Create signs up a channel named name. A channel with the same token yields
// ErrChannelExists.
func (s *ChannelService) Create(ctx context.Context, name, password string) (*domain.Channel, error) {
	if s.hasher == nil {
		return nil, s.g.reject(ctx, storeChannels, "create", ErrNotReady)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, s.g.reject(ctx, storeChannels, "create", internalError(err))
	}

	var out *domain.Channel
	err = s.g.run(ctx, storeChannels, "create", attrs(channelAttr(name)), func(tx *gorm.DB) error {
		if _, err := s.Repo.GetChannelByToken(ctx, tx, name); err == nil {
			return ErrChannelExists
		} else if !isNotFound(err) {
			return err
		}
		c, err := s.Repo.CreateChannel(ctx, tx, name, hash)
		if err != nil {
			return translate(err, nil, ErrChannelExists)
		}
		out = c
		return nil
	})
	return out, err
}

// Authenticate returns the channel when password matches its stored hash.
// An unknown token and a wrong password both yield ErrInvalidCredentials, and
// both cost one Verify so timing does not tell them apart.
func (s *ChannelService) Authenticate(ctx context.Context, token, password string) (*domain.Channel, error) {
	if s.hasher == nil {
		return nil, s.g.reject(ctx, storeChannels, "authenticate", ErrNotReady)
	}
	c, err := s.GetByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			_, _ = s.hasher.Verify(s.decoy(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := s.hasher.Verify(c.PasswordHash, password)
	if err != nil {
		return nil, s.g.reject(ctx, storeChannels, "authenticate", internalError(err))
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

// decoy returns a hash to verify against when the token is unknown. It is
// computed on first use with the configured hasher, so it costs the same.
func (s *ChannelService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("decoy-credential")
	})
	return s.decoyHash
}

// Stats summarises what a channel owns. The channel must exist.
func (s *ChannelService) Stats(ctx context.Context, token string) (repo.ChannelStats, error) {
	var out repo.ChannelStats
	err := s.g.run(ctx, storeChannels, "stats", attrs(channelAttr(token)), func(tx *gorm.DB) error {
		if _, err := s.Repo.GetChannelByToken(ctx, tx, token); err != nil {
			return translate(err, ErrChannelNotFound, nil)
		}
		st, err := s.Repo.CollectChannelStats(ctx, tx, token)
		if err != nil {
			return err
		}
		out = st
		return nil
	})
	return out, err
}
