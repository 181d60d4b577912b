// Package repo implements the data persistence layer for domain entities,
// backed by GORM.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only CRUD persistence and query composition.
//
// Error semantics:
//   - A missing single record yields ErrNotFound (gorm.ErrRecordNotFound).
//   - Updates and deletes that must hit a row return ErrNotFound when
//     RowsAffected is zero.
//   - Unique-index violations yield ErrDuplicate.
//   - Other driver errors are wrapped with the failing step and returned.
package repo

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

var (
	// ErrDuplicate indicates that a row with the same unique key already exists.
	ErrDuplicate = errors.New("duplicate")

	// ErrIDGeneration is returned when a primary key could not be generated.
	ErrIDGeneration = errors.New("id generation failed")

	// ErrOverflow is returned when a counter update leaves the int32 range.
	// The caller must roll back the enclosing transaction.
	ErrOverflow = errors.New("counter out of int32 range")
)

// newID generates primary keys. Tests may replace it.
var newID = func() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", pkgerrors.Wrap(ErrIDGeneration, err.Error())
	}
	return id.String(), nil
}

// wrap classifies err for callers: unique violations become ErrDuplicate,
// not-found passes through, everything else is annotated with step.
func wrap(err error, step string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return err
	case isDuplicate(err):
		return ErrDuplicate
	default:
		return pkgerrors.Wrap(err, step)
	}
}

// isDuplicate detects unique-constraint violations, including drivers that
// do not translate to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// affected turns a write result into ErrNotFound when no row matched.
func affected(res *gorm.DB, step string) error {
	if res.Error != nil {
		return wrap(res.Error, step)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
