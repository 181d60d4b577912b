package services

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/mutex"
	"github.com/tbourn/go-botconfig-backend/internal/repo"
)

// Store is the full persistence contract: the union of every per-store repo
// interface. repo.Store implements it.
type Store interface {
	ChannelRepo
	CommandRepo
	AliasRepo
	RepeatRepo
	QuoteRepo
	TrustRepo
	SocialRepo
	AuthorizationRepo
	OffenceRepo
	ConfigRepo
}

var _ Store = repo.Store{}

// Options configures NewRepository. Zero values pick defaults.
type Options struct {
	// Locker serializes operations. Defaults to a process-local lock.
	Locker mutex.Locker
	// Hasher hashes channel passwords. Without one, channel signup and
	// authentication fail with ErrNotReady.
	Hasher CredentialHasher
	// Logger receives fault logs. Defaults to the global zerolog logger.
	Logger *zerolog.Logger
	// QuoteRetries bounds quote id collisions. Defaults to 3.
	QuoteRetries int
	// Store is the persistence implementation. Defaults to repo.Store.
	Store Store
}

// Repository is the entry point to every store. All stores share one lock,
// so at most one operation runs at a time.
type Repository struct {
	Channels       *ChannelService
	Commands       *CommandService
	Aliases        *AliasService
	Repeats        *RepeatService
	Quotes         *QuoteService
	Trusts         *TrustService
	Socials        *SocialService
	Authorizations *AuthorizationService
	Offences       *OffenceService
	Configs        *ConfigService
}

// NewRepository wires the stores to db. A nil db yields a repository whose
// operations fail with ErrNotReady.
func NewRepository(db *gorm.DB, opts Options) *Repository {
	if opts.Locker == nil {
		opts.Locker = mutex.NewLocal()
	}
	if opts.Store == nil {
		opts.Store = repo.Store{}
	}
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	g := gate{db: db, locker: opts.Locker, log: lg.With().Str("component", "repository").Logger()}

	st := opts.Store

	return &Repository{
		Channels:       &ChannelService{g: g, Repo: st, hasher: opts.Hasher},
		Commands:       &CommandService{g: g, Repo: st},
		Aliases:        &AliasService{g: g, Repo: st},
		Repeats:        &RepeatService{g: g, Repo: st},
		Quotes:         &QuoteService{g: g, Repo: st, retries: opts.QuoteRetries},
		Trusts:         &TrustService{g: g, Repo: st},
		Socials:        &SocialService{g: g, Repo: st},
		Authorizations: &AuthorizationService{g: g, Repo: st},
		Offences:       &OffenceService{g: g, Repo: st},
		Configs:        &ConfigService{g: g, Repo: st},
	}
}
