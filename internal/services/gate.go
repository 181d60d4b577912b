// Every repository operation passes through a gate: it opens a span, takes
// the repository lock, runs the operation inside one transaction, classifies
// the result into the error taxonomy and records metrics. Faults (database
// and internal errors) are logged; domain outcomes are not.

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/mutex"
	"github.com/tbourn/go-botconfig-backend/internal/observability"
	"github.com/tbourn/go-botconfig-backend/internal/repo"
	"github.com/tbourn/go-botconfig-backend/internal/secure"
)

// gate serializes and instruments operations. The zero value reports
// ErrNotReady for every call.
type gate struct {
	db     *gorm.DB
	locker mutex.Locker
	log    zerolog.Logger
}

// run executes fn in a transaction while holding the repository lock.
func (g gate) run(ctx context.Context, store, op string, kv []attribute.KeyValue, fn func(tx *gorm.DB) error) (err error) {
	start := time.Now()
	ctx, span := observability.Tracer(store).Start(ctx, op, trace.WithAttributes(kv...))
	defer span.End()
	defer func() { err = g.finish(span, store, op, start, err) }()

	if g.db == nil || g.locker == nil {
		return ErrNotReady
	}
	release, err := g.locker.Lock(ctx)
	observability.ObserveLockWait(time.Since(start))
	if err != nil {
		return internalError(fmt.Errorf("acquire lock: %w", err))
	}
	defer release()

	return g.db.WithContext(ctx).Transaction(fn)
}

// reject records an operation that failed before reaching the database.
func (g gate) reject(ctx context.Context, store, op string, err error) error {
	_, span := observability.Tracer(store).Start(ctx, op)
	defer span.End()
	return g.finish(span, store, op, time.Now(), err)
}

func (g gate) finish(span trace.Span, store, op string, start time.Time, err error) error {
	err = classify(store, op, err)
	outcome := outcomeOf(err)
	observability.RecordOperation(store, op, outcome, time.Since(start))
	span.SetAttributes(attribute.String("repository.outcome", outcome))

	if outcome == observability.OutcomeDatabase || outcome == observability.OutcomeInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.log.Error().
			Err(err).
			Str("store", store).
			Str("op", op).
			Msg("repository operation failed")
	}
	return err
}

// classify maps repo and driver errors that the service did not translate
// itself onto the taxonomy.
func classify(store, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case Kind(err) != nil:
		return err
	case errors.Is(err, repo.ErrIDGeneration), errors.Is(err, secure.ErrHash):
		return internalError(err)
	case errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, store)
	case errors.Is(err, repo.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, store)
	default:
		return &DatabaseError{Store: store, Op: op, Err: err}
	}
}

func outcomeOf(err error) string {
	switch Kind(err) {
	case nil:
		return observability.OutcomeOK
	case ErrNotFound:
		return observability.OutcomeNotFound
	case ErrConflict:
		return observability.OutcomeConflict
	case ErrValidation:
		return observability.OutcomeValidation
	case ErrDatabase:
		return observability.OutcomeDatabase
	default:
		return observability.OutcomeInternal
	}
}

// translate replaces repo.ErrNotFound and repo.ErrDuplicate with the given
// service errors. A nil replacement leaves that case untouched.
func translate(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repo.ErrNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, repo.ErrDuplicate):
		return duplicate
	}
	return err
}

// foldService normalises a service identifier so "Twitch" and "twitch"
// address the same record. A Caser is stateful, hence one per call.
func foldService(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func channelAttr(channel string) attribute.KeyValue {
	return attribute.String("channel", channel)
}

func attrs(kv ...attribute.KeyValue) []attribute.KeyValue { return kv }

// isNotFound matches both repo and service level not-found errors.
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, ErrNotFound)
}
