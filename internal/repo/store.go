package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// Store exposes the package functions as methods so services can depend on
// an interface. The zero value is ready to use.
type Store struct{}

// Channels

func (Store) GetChannelByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Channel, error) {
	return GetChannelByToken(ctx, db, token)
}

func (Store) CreateChannel(ctx context.Context, db *gorm.DB, token, passwordHash string) (*domain.Channel, error) {
	return CreateChannel(ctx, db, token, passwordHash)
}

func (Store) CollectChannelStats(ctx context.Context, db *gorm.DB, channel string) (ChannelStats, error) {
	return CollectChannelStats(ctx, db, channel)
}

// Commands

func (Store) ListCommands(ctx context.Context, db *gorm.DB, channel string) ([]domain.Command, error) {
	return ListCommands(ctx, db, channel)
}

func (Store) GetCommand(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Command, error) {
	return GetCommand(ctx, db, channel, name)
}

func (Store) CreateCommand(ctx context.Context, db *gorm.DB, channel, name string, response []domain.Component, services []string, role string) (*domain.Command, error) {
	return CreateCommand(ctx, db, channel, name, response, services, role)
}

func (Store) UpdateCommandResponse(ctx context.Context, db *gorm.DB, channel, name string, response []domain.Component) error {
	return UpdateCommandResponse(ctx, db, channel, name, response)
}

func (Store) SetCommandEnabled(ctx context.Context, db *gorm.DB, channel, name string, enabled bool) error {
	return SetCommandEnabled(ctx, db, channel, name, enabled)
}

func (Store) DeleteCommand(ctx context.Context, db *gorm.DB, channel, name string) error {
	return DeleteCommand(ctx, db, channel, name)
}

func (Store) ApplyCommandCount(ctx context.Context, db *gorm.DB, channel, name string, d domain.Delta) (int32, error) {
	return ApplyCommandCount(ctx, db, channel, name, d)
}

// Aliases

func (Store) CreateAlias(ctx context.Context, db *gorm.DB, channel, alias, command string) (*domain.Alias, error) {
	return CreateAlias(ctx, db, channel, alias, command)
}

func (Store) GetAlias(ctx context.Context, db *gorm.DB, channel, alias string) (*domain.Alias, error) {
	return GetAlias(ctx, db, channel, alias)
}

func (Store) ListAliases(ctx context.Context, db *gorm.DB, channel string) ([]domain.Alias, error) {
	return ListAliases(ctx, db, channel)
}

func (Store) DeleteAlias(ctx context.Context, db *gorm.DB, channel, alias string) error {
	return DeleteAlias(ctx, db, channel, alias)
}

func (Store) DeleteAliasesTo(ctx context.Context, db *gorm.DB, channel, command string) (int64, error) {
	return DeleteAliasesTo(ctx, db, channel, command)
}

// Repeats

func (Store) CreateRepeat(ctx context.Context, db *gorm.DB, channel, name, command, arguments string, interval int32) (*domain.Repeat, error) {
	return CreateRepeat(ctx, db, channel, name, command, arguments, interval)
}

func (Store) GetRepeat(ctx context.Context, db *gorm.DB, channel, name string) (*domain.Repeat, error) {
	return GetRepeat(ctx, db, channel, name)
}

func (Store) ListRepeats(ctx context.Context, db *gorm.DB, channel string) ([]domain.Repeat, error) {
	return ListRepeats(ctx, db, channel)
}

func (Store) DeleteRepeat(ctx context.Context, db *gorm.DB, channel, name string) error {
	return DeleteRepeat(ctx, db, channel, name)
}

func (Store) DeleteRepeatsFor(ctx context.Context, db *gorm.DB, channel, command string) (int64, error) {
	return DeleteRepeatsFor(ctx, db, channel, command)
}

// Quotes

func (Store) ListQuotes(ctx context.Context, db *gorm.DB, channel string) ([]domain.Quote, error) {
	return ListQuotes(ctx, db, channel)
}

func (Store) GetQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64) (*domain.Quote, error) {
	return GetQuote(ctx, db, channel, quoteID)
}

func (Store) RandomQuote(ctx context.Context, db *gorm.DB, channel string) (*domain.Quote, error) {
	return RandomQuote(ctx, db, channel)
}

func (Store) MaxQuoteID(ctx context.Context, db *gorm.DB, channel string) (int64, error) {
	return MaxQuoteID(ctx, db, channel)
}

func (Store) CreateQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64, response []domain.Component) (*domain.Quote, error) {
	return CreateQuote(ctx, db, channel, quoteID, response)
}

func (Store) UpdateQuoteResponse(ctx context.Context, db *gorm.DB, channel string, quoteID int64, response []domain.Component) error {
	return UpdateQuoteResponse(ctx, db, channel, quoteID, response)
}

func (Store) DeleteQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64) error {
	return DeleteQuote(ctx, db, channel, quoteID)
}

// Trusts

func (Store) CreateTrust(ctx context.Context, db *gorm.DB, channel, user string) (*domain.Trust, error) {
	return CreateTrust(ctx, db, channel, user)
}

func (Store) GetTrust(ctx context.Context, db *gorm.DB, channel, user string) (*domain.Trust, error) {
	return GetTrust(ctx, db, channel, user)
}

func (Store) ListTrusts(ctx context.Context, db *gorm.DB, channel string) ([]domain.Trust, error) {
	return ListTrusts(ctx, db, channel)
}

func (Store) DeleteTrust(ctx context.Context, db *gorm.DB, channel, user string) error {
	return DeleteTrust(ctx, db, channel, user)
}

// Socials

func (Store) UpsertSocial(ctx context.Context, db *gorm.DB, channel, service, url string) (*domain.SocialService, error) {
	return UpsertSocial(ctx, db, channel, service, url)
}

func (Store) GetSocial(ctx context.Context, db *gorm.DB, channel, service string) (*domain.SocialService, error) {
	return GetSocial(ctx, db, channel, service)
}

func (Store) ListSocials(ctx context.Context, db *gorm.DB, channel string) ([]domain.SocialService, error) {
	return ListSocials(ctx, db, channel)
}

func (Store) DeleteSocial(ctx context.Context, db *gorm.DB, channel, service string) error {
	return DeleteSocial(ctx, db, channel, service)
}

// Authorizations

func (Store) GetAuthorization(ctx context.Context, db *gorm.DB, channel, service string) (*domain.Authorization, error) {
	return GetAuthorization(ctx, db, channel, service)
}

func (Store) UpsertAuthorization(ctx context.Context, db *gorm.DB, channel, service, access, refresh, expiration string) error {
	return UpsertAuthorization(ctx, db, channel, service, access, refresh, expiration)
}

// Offences

func (Store) GetOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (*domain.UserOffences, error) {
	return GetOffences(ctx, db, channel, service, user)
}

func (Store) ListOffences(ctx context.Context, db *gorm.DB, channel, service string) ([]domain.UserOffences, error) {
	return ListOffences(ctx, db, channel, service)
}

func (Store) CreateOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (*domain.UserOffences, error) {
	return CreateOffences(ctx, db, channel, service, user)
}

func (Store) EnsureOffences(ctx context.Context, db *gorm.DB, channel, service, user string) (bool, error) {
	return EnsureOffences(ctx, db, channel, service, user)
}

func (Store) ApplyOffence(ctx context.Context, db *gorm.DB, channel, service, user, column string, d domain.Delta) (int32, error) {
	return ApplyOffence(ctx, db, channel, service, user, column, d)
}

// Config

func (Store) GetConfig(ctx context.Context, db *gorm.DB, channel string) (*domain.Config, error) {
	return GetConfig(ctx, db, channel)
}
