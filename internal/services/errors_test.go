package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tbourn/go-botconfig-backend/internal/repo"
	"github.com/tbourn/go-botconfig-backend/internal/secure"
)

func TestErrors_EachMatchesExactlyOneKind(t *testing.T) {
	cases := map[error]error{
		ErrChannelNotFound:       ErrNotFound,
		ErrChannelExists:         ErrConflict,
		ErrInvalidCredentials:    ErrValidation,
		ErrCommandNotFound:       ErrNotFound,
		ErrCommandExists:         ErrConflict,
		ErrAliasNotFound:         ErrNotFound,
		ErrAliasExists:           ErrConflict,
		ErrQuoteNotFound:         ErrNotFound,
		ErrQuoteContention:       ErrConflict,
		ErrAlreadyTrusted:        ErrConflict,
		ErrTrustNotFound:         ErrNotFound,
		ErrSocialNotFound:        ErrNotFound,
		ErrAuthorizationNotFound: ErrNotFound,
		ErrMissingAccessToken:    ErrValidation,
		ErrOffencesNotFound:      ErrNotFound,
		ErrOffencesExist:         ErrConflict,
		ErrConfigNotFound:        ErrNotFound,
		ErrInvalidOperator:       ErrValidation,
		ErrInvalidCount:          ErrValidation,
		ErrInvalidAttribute:      ErrValidation,
		ErrNotReady:              ErrInternal,
	}
	for err, want := range cases {
		matched := 0
		for _, k := range kinds {
			if errors.Is(err, k) {
				matched++
			}
		}
		if matched != 1 || Kind(err) != want {
			t.Errorf("%v: matched %d kinds, Kind=%v; want exactly %v", err, matched, Kind(err), want)
		}
	}
}

func TestErrors_Messages(t *testing.T) {
	if got := ErrAlreadyTrusted.Error(); got != "conflict: already trusted" {
		t.Fatalf("ErrAlreadyTrusted = %q", got)
	}
	if got := ErrTrustNotFound.Error(); got != "not found: trust does not exist" {
		t.Fatalf("ErrTrustNotFound = %q", got)
	}
	if got := ErrChannelExists.Error(); got != "conflict: exists" {
		t.Fatalf("ErrChannelExists = %q", got)
	}
}

func TestDatabaseError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&DatabaseError{Store: "quotes", Op: "create", Err: cause})

	if !errors.Is(err, ErrDatabase) || !errors.Is(err, cause) {
		t.Fatalf("expected Is(ErrDatabase) and Is(cause)")
	}
	if errors.Is(err, ErrInternal) || errors.Is(err, ErrNotFound) {
		t.Fatalf("DatabaseError must not match other kinds")
	}
	if got := err.Error(); got != "quotes create: database error: disk full" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestClassify(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		in   error
		want error
	}{
		{nil, nil},
		{ErrAlreadyTrusted, ErrConflict},
		{repo.ErrNotFound, ErrNotFound},
		{repo.ErrDuplicate, ErrConflict},
		{fmt.Errorf("wrapped: %w", repo.ErrIDGeneration), ErrInternal},
		{fmt.Errorf("wrapped: %w", secure.ErrHash), ErrInternal},
		{cause, ErrDatabase},
		{repo.ErrOverflow, ErrDatabase},
	}
	for _, c := range cases {
		got := classify("s", "op", c.in)
		if Kind(got) != c.want {
			t.Errorf("classify(%v) kind = %v; want %v", c.in, Kind(got), c.want)
		}
	}
	if Kind(errors.New("plain")) != nil {
		t.Fatalf("unclassified error should have nil kind")
	}
}

func TestInternalError_KeepsCause(t *testing.T) {
	cause := errors.New("entropy")
	err := internalError(cause)
	if !errors.Is(err, ErrInternal) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrInternal wrapping cause, got %v", err)
	}
	if internalError(ErrNotReady) != ErrNotReady {
		t.Fatalf("already internal errors should pass through")
	}
}
