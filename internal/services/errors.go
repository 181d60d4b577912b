// Package services defines the business rules of the channel configuration
// repository. This file centralizes the error taxonomy so that every service
// method returns an error that matches exactly one of the root kinds below via
// errors.Is.
//
// Translation into user-facing messages or protocol status codes is left to
// the transport layer.
package services

import (
	"errors"
	"fmt"
)

// Root kinds. NotFound, Conflict and Validation are domain outcomes the caller
// can recover from; Database and Internal are faults.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrDatabase   = errors.New("database error")
	ErrInternal   = errors.New("internal error")
)

// Channel errors.
var (
	ErrChannelNotFound    = fmt.Errorf("%w: channel does not exist", ErrNotFound)
	ErrChannelExists      = fmt.Errorf("%w: exists", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrValidation)
)

// Command and alias errors.
var (
	ErrCommandNotFound = fmt.Errorf("%w: command does not exist", ErrNotFound)
	ErrCommandExists   = fmt.Errorf("%w: command already exists", ErrConflict)
	ErrAliasNotFound   = fmt.Errorf("%w: alias does not exist", ErrNotFound)
	ErrAliasExists     = fmt.Errorf("%w: alias already exists", ErrConflict)
)

// Repeat errors.
var (
	ErrRepeatNotFound = fmt.Errorf("%w: repeat does not exist", ErrNotFound)
	ErrRepeatExists   = fmt.Errorf("%w: repeat already exists", ErrConflict)

	// ErrMissingCommand is returned when a repeat names a command the
	// channel does not have.
	ErrMissingCommand = fmt.Errorf("%w: missing referenced command", ErrValidation)

	// ErrInvalidInterval is returned for repeat intervals below one second.
	ErrInvalidInterval = fmt.Errorf("%w: interval must be positive", ErrValidation)
)

// Quote errors.
var (
	ErrQuoteNotFound = fmt.Errorf("%w: quote does not exist", ErrNotFound)

	// ErrQuoteContention is returned when every attempt to claim the next
	// quote id collided with a concurrent writer.
	ErrQuoteContention = fmt.Errorf("%w: quote id taken by concurrent writer", ErrConflict)
)

// Trust errors.
var (
	ErrAlreadyTrusted = fmt.Errorf("%w: already trusted", ErrConflict)
	ErrTrustNotFound  = fmt.Errorf("%w: trust does not exist", ErrNotFound)
)

// Social, authorization, offence and config errors.
var (
	ErrSocialNotFound        = fmt.Errorf("%w: social service does not exist", ErrNotFound)
	ErrAuthorizationNotFound = fmt.Errorf("%w: authorization does not exist", ErrNotFound)
	ErrMissingAccessToken    = fmt.Errorf("%w: access token is required", ErrValidation)
	ErrOffencesNotFound      = fmt.Errorf("%w: offences do not exist", ErrNotFound)
	ErrOffencesExist         = fmt.Errorf("%w: offences already exist", ErrConflict)
	ErrConfigNotFound        = fmt.Errorf("%w: config does not exist", ErrNotFound)
)

// Delta and attribute errors.
var (
	// ErrInvalidOperator is returned when a delta does not start with +, - or @.
	ErrInvalidOperator = fmt.Errorf("%w: invalid operator", ErrValidation)

	// ErrInvalidCount is returned when the amount of a delta is not a
	// non-negative int32, or when applying it would leave the int32 range.
	ErrInvalidCount = fmt.Errorf("%w: invalid count", ErrValidation)

	// ErrInvalidAttribute is returned for offence attributes other than caps,
	// emoji and urls.
	ErrInvalidAttribute = fmt.Errorf("%w: invalid attribute", ErrValidation)
)

// ErrNotReady is returned when the repository was built without a database
// handle or credential hasher.
var ErrNotReady = fmt.Errorf("%w: repository not initialised", ErrInternal)

// DatabaseError wraps a driver or query failure. errors.Is(err, ErrDatabase)
// holds and Unwrap exposes the driver error.
type DatabaseError struct {
	Store string
	Op    string
	Err   error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Store, e.Op, ErrDatabase, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDatabase.
func (e *DatabaseError) Is(target error) bool { return target == ErrDatabase }

// internalError marks err as an InternalError while keeping it inspectable.
func internalError(err error) error {
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

// kinds lists the root kinds in classification order.
var kinds = []error{ErrNotFound, ErrConflict, ErrValidation, ErrDatabase, ErrInternal}

// Kind returns the root kind err belongs to, or nil for a nil or unclassified
// error.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
