package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// ListQuotes returns every quote of a channel ordered by quote id.
func ListQuotes(ctx context.Context, db *gorm.DB, channel string) ([]domain.Quote, error) {
	out := []domain.Quote{}
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("quote_id asc").
		Find(&out).Error
	return out, wrap(err, "list quotes")
}

// GetQuote fetches a quote by channel and quote id, or ErrNotFound.
func GetQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64) (*domain.Quote, error) {
	var q domain.Quote
	err := db.WithContext(ctx).
		Where("channel = ? AND quote_id = ?", channel, quoteID).
		First(&q).Error
	if err != nil {
		return nil, wrap(err, "get quote")
	}
	return &q, nil
}

// RandomQuote picks one quote of a channel uniformly at random, or returns
// ErrNotFound when the channel has none.
func RandomQuote(ctx context.Context, db *gorm.DB, channel string) (*domain.Quote, error) {
	var q domain.Quote
	err := db.WithContext(ctx).
		Where("channel = ?", channel).
		Order("RANDOM()").
		Take(&q).Error
	if err != nil {
		return nil, wrap(err, "random quote")
	}
	return &q, nil
}

// MaxQuoteID returns the highest quote id of a channel, or 0 when it has none.
func MaxQuoteID(ctx context.Context, db *gorm.DB, channel string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("channel = ?", channel).
		Select("COALESCE(MAX(quote_id), 0)").
		Row().Scan(&n)
	return n, wrap(err, "max quote id")
}

// CreateQuote inserts a quote with an explicit quote id. A taken id fails
// with ErrDuplicate.
func CreateQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64, response []domain.Component) (*domain.Quote, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	if response == nil {
		response = []domain.Component{}
	}
	now := time.Now().UTC()
	q := &domain.Quote{
		ID:        id,
		Channel:   channel,
		QuoteID:   quoteID,
		Response:  datatypes.JSONSlice[domain.Component](response),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, wrap(err, "create quote")
	}
	return q, nil
}

// UpdateQuoteResponse replaces the response of a quote and bumps UpdatedAt.
// Returns ErrNotFound if no quote matched.
func UpdateQuoteResponse(ctx context.Context, db *gorm.DB, channel string, quoteID int64, response []domain.Component) error {
	if response == nil {
		response = []domain.Component{}
	}
	res := db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("channel = ? AND quote_id = ?", channel, quoteID).
		Updates(map[string]any{
			"response":   datatypes.JSONSlice[domain.Component](response),
			"updated_at": time.Now().UTC(),
		})
	return affected(res, "update quote")
}

// DeleteQuote removes a quote. Deleting a missing quote is not an error.
func DeleteQuote(ctx context.Context, db *gorm.DB, channel string, quoteID int64) error {
	err := db.WithContext(ctx).
		Where("channel = ? AND quote_id = ?", channel, quoteID).
		Delete(&domain.Quote{}).Error
	return wrap(err, "delete quote")
}
