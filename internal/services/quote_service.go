package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

const storeQuotes = "quotes"

// defaultQuoteRetries bounds Create when another writer claims the same id.
const defaultQuoteRetries = 3

// QuoteRepo defines the repository contract required by QuoteService.
type QuoteRepo interface {
	ListQuotes(ctx context.Context, db *gorm.DB, channel string) ([]domain.Quote, error)
	GetQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64) (*domain.Quote, error)
	RandomQuote(ctx context.Context, db *gorm.DB, channel string) (*domain.Quote, error)

	// MaxQuoteID returns the highest quote id of a channel, 0 when empty.
	MaxQuoteID(ctx context.Context, db *gorm.DB, channel string) (int64, error)

	CreateQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64, response []domain.Component) (*domain.Quote, error)
	UpdateQuoteResponse(ctx context.Context, db *gorm.DB, channel string, quoteID int64, response []domain.Component) error
	DeleteQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64) error
}

// QuoteService manages a channel's quote archive. Quote ids are sequential
// per channel starting at 1.
type QuoteService struct {
	g gate
	// Repo is the quote repository used by this service.
	Repo    QuoteRepo
	retries int
}

func quoteAttrs(channel string, id int64) []attribute.KeyValue {
	return attrs(channelAttr(channel), attribute.Int64("quote.id", id))
}

// Get returns the quote with the given id, or every quote of channel when id
// is nil. Filtering by an unknown id yields ErrQuoteNotFound; listing an
// empty archive returns an empty slice.
func (s *QuoteService) Get(ctx context.Context, channel string, id *int64) ([]domain.Quote, error) {
	var out []domain.Quote
	if id == nil {
		err := s.g.run(ctx, storeQuotes, "list", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
			items, err := s.Repo.ListQuotes(ctx, tx, channel)
			out = items
			return err
		})
		return out, err
	}

	err := s.g.run(ctx, storeQuotes, "get", quoteAttrs(channel, *id), func(tx *gorm.DB) error {
		q, err := s.Repo.GetQuote(ctx, tx, channel, *id)
		if err != nil {
			return translate(err, ErrQuoteNotFound, nil)
		}
		out = []domain.Quote{*q}
		return nil
	})
	return out, err
}

// Random returns one quote sampled uniformly, or ErrQuoteNotFound when the
// archive is empty.
func (s *QuoteService) Random(ctx context.Context, channel string) (*domain.Quote, error) {
	var out *domain.Quote
	err := s.g.run(ctx, storeQuotes, "random", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
		q, err := s.Repo.RandomQuote(ctx, tx, channel)
		if err != nil {
			return translate(err, ErrQuoteNotFound, nil)
		}
		out = q
		return nil
	})
	return out, err
}

// errQuoteIDTaken signals a collision on the unique (channel, quote_id) index.
var errQuoteIDTaken = errors.New("quote id taken")

// Create appends a quote and returns its id, one past the highest id in use.
// A collision with a concurrent writer retries in a fresh transaction.
func (s *QuoteService) Create(ctx context.Context, channel string, response []domain.Component) (int64, error) {
	retries := s.retries
	if retries <= 0 {
		retries = defaultQuoteRetries
	}

	var id int64
	for attempt := 0; attempt < retries; attempt++ {
		err := s.g.run(ctx, storeQuotes, "create", attrs(channelAttr(channel)), func(tx *gorm.DB) error {
			top, err := s.Repo.MaxQuoteID(ctx, tx, channel)
			if err != nil {
				return err
			}
			q, err := s.Repo.CreateQuote(ctx, tx, channel, top+1, response)
			if err != nil {
				return translate(err, nil, fmt.Errorf("%w: %w", ErrQuoteContention, errQuoteIDTaken))
			}
			id = q.QuoteID
			return nil
		})
		if errors.Is(err, errQuoteIDTaken) {
			continue
		}
		return id, err
	}
	return 0, ErrQuoteContention
}

// Edit replaces the response of quote id.
func (s *QuoteService) Edit(ctx context.Context, channel string, id int64, response []domain.Component) error {
	return s.g.run(ctx, storeQuotes, "edit", quoteAttrs(channel, id), func(tx *gorm.DB) error {
		return translate(s.Repo.UpdateQuoteResponse(ctx, tx, channel, id, response), ErrQuoteNotFound, nil)
	})
}

// Delete removes quote id. Deleting a missing quote succeeds.
func (s *QuoteService) Delete(ctx context.Context, channel string, id int64) error {
	return s.g.run(ctx, storeQuotes, "delete", quoteAttrs(channel, id), func(tx *gorm.DB) error {
		return s.Repo.DeleteQuote(ctx, tx, channel, id)
	})
}
