package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

func TestOffences_CreateGetDuplicate(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	if _, err := GetOffences(ctx, db, "chan", "twitch", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	o, err := CreateOffences(ctx, db, "chan", "twitch", "bob")
	if err != nil {
		t.Fatalf("CreateOffences: %v", err)
	}
	if o.Caps != 0 || o.Emoji != 0 || o.URLs != 0 || o.User != "bob" {
		t.Fatalf("unexpected record: %+v", o)
	}
	if _, err := CreateOffences(ctx, db, "chan", "twitch", "bob"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same user on a different service is a different record.
	if _, err := CreateOffences(ctx, db, "chan", "youtube", "bob"); err != nil {
		t.Fatalf("CreateOffences other service: %v", err)
	}
}

func TestEnsureOffences_Idempotent(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	created, err := EnsureOffences(ctx, db, "chan", "twitch", "bob")
	if err != nil || !created {
		t.Fatalf("first ensure = %v, %v; want true", created, err)
	}
	created, err = EnsureOffences(ctx, db, "chan", "twitch", "bob")
	if err != nil || created {
		t.Fatalf("second ensure = %v, %v; want false", created, err)
	}
	list, _ := ListOffences(ctx, db, "chan", "twitch")
	if len(list) != 1 {
		t.Fatalf("expected one record, got %+v", list)
	}
}

func TestApplyOffence(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	if _, err := ApplyOffence(ctx, db, "chan", "twitch", "bob", "caps", domain.Delta{Op: domain.DeltaAdd, Amount: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := EnsureOffences(ctx, db, "chan", "twitch", "bob"); err != nil {
		t.Fatalf("EnsureOffences: %v", err)
	}
	if v, err := ApplyOffence(ctx, db, "chan", "twitch", "bob", "caps", domain.Delta{Op: domain.DeltaAdd, Amount: 1}); err != nil || v != 1 {
		t.Fatalf("caps +1 = %d, %v", v, err)
	}
	if v, err := ApplyOffence(ctx, db, "chan", "twitch", "bob", "urls", domain.Delta{Op: domain.DeltaSet, Amount: 4}); err != nil || v != 4 {
		t.Fatalf("urls @4 = %d, %v", v, err)
	}

	got, _ := GetOffences(ctx, db, "chan", "twitch", "bob")
	if got.Caps != 1 || got.Emoji != 0 || got.URLs != 4 {
		t.Fatalf("unexpected counters: %+v", got)
	}
}

func TestListOffences_FilterAndOrder(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	for _, u := range []string{"zed", "amy"} {
		if _, err := CreateOffences(ctx, db, "chan", "twitch", u); err != nil {
			t.Fatalf("seed %s: %v", u, err)
		}
	}
	if _, err := CreateOffences(ctx, db, "chan", "youtube", "kim"); err != nil {
		t.Fatalf("seed kim: %v", err)
	}

	list, err := ListOffences(ctx, db, "chan", "twitch")
	if err != nil || len(list) != 2 || list[0].User != "amy" || list[1].User != "zed" {
		t.Fatalf("ListOffences = %+v, %v", list, err)
	}
}
