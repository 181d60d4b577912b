package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
	"github.com/tbourn/go-botconfig-backend/internal/repo"
)

// ParseDelta parses a counter delta of the form <op><amount>, where op is one
// of '+', '-' or '@' and amount is a base-10 non-negative int32.
//
// A missing or unknown operator yields ErrInvalidOperator; an amount that is
// empty, signed, non-numeric or outside the int32 range yields ErrInvalidCount.
func ParseDelta(spec string) (domain.Delta, error) {
	if spec == "" {
		return domain.Delta{}, ErrInvalidOperator
	}
	op := domain.DeltaOp(spec[0])
	switch op {
	case domain.DeltaAdd, domain.DeltaSub, domain.DeltaSet:
	default:
		return domain.Delta{}, ErrInvalidOperator
	}

	digits := spec[1:]
	if digits == "" {
		return domain.Delta{}, ErrInvalidCount
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return domain.Delta{}, ErrInvalidCount
		}
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return domain.Delta{}, ErrInvalidCount
	}
	return domain.Delta{Op: op, Amount: int32(n)}, nil
}

// countResult reports a counter pushed outside the int32 range as
// ErrInvalidCount. Returned from a transaction callback, it still rolls the
// write back.
func countResult(err error) error {
	if errors.Is(err, repo.ErrOverflow) {
		return fmt.Errorf("%w: result outside int32 range", ErrInvalidCount)
	}
	return err
}
