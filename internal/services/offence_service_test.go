package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

func TestOffenceService_GetUnknown_NotFound(t *testing.T) {
	r, _ := newTestRepository(t)
	if _, err := r.Offences.Get(context.Background(), "chan", "twitch", "newuser"); !errors.Is(err, ErrOffencesNotFound) {
		t.Fatalf("expected ErrOffencesNotFound, got %v", err)
	}
}

func TestOffenceService_UpdateOffence_AutoCreates(t *testing.T) {
	r, _ := newTestRepository(t)
	ctx := context.Background()

	o, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "newuser", "caps", "+1")
	if err != nil {
		t.Fatalf("UpdateOffence: %v", err)
	}
	if o.Caps != 1 || o.Emoji != 0 || o.URLs != 0 || o.User != "newuser" || o.ID == "" {
		t.Fatalf("unexpected record: %+v", o)
	}

	o, err = r.Offences.UpdateOffence(ctx, "chan", "Twitch", "newuser", "emoji", "@4")
	if err != nil || o.Caps != 1 || o.Emoji != 4 {
		t.Fatalf("second update = %+v, %v", o, err)
	}
	o, err = r.Offences.UpdateOffence(ctx, "chan", "twitch", "newuser", "emoji", "-1")
	if err != nil || o.Emoji != 3 {
		t.Fatalf("third update = %+v, %v", o, err)
	}

	got, err := r.Offences.Get(ctx, "chan", "twitch", "newuser")
	if err != nil || got.ID != o.ID || got.Caps != 1 || got.Emoji != 3 || got.URLs != 0 {
		t.Fatalf("Get = %+v, %v; want %+v", got, err, o)
	}
}

func TestOffenceService_UpdateOffence_Validation(t *testing.T) {
	r, _ := newTestRepository(t)
	ctx := context.Background()

	if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "u", "links", "+1"); !errors.Is(err, ErrInvalidAttribute) {
		t.Fatalf("expected ErrInvalidAttribute, got %v", err)
	}
	if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "u", "caps", "*1"); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("expected ErrInvalidOperator, got %v", err)
	}
	if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "u", "caps", "+x"); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
	// Rejected updates never create a record.
	if _, err := r.Offences.Get(ctx, "chan", "twitch", "u"); !errors.Is(err, ErrOffencesNotFound) {
		t.Fatalf("expected no record, got %v", err)
	}
}

func TestOffenceService_CreateAndList(t *testing.T) {
	r, _ := newTestRepository(t)
	ctx := context.Background()

	o, err := r.Offences.Create(ctx, "chan", "twitch", "bob")
	if err != nil || o.Caps != 0 || o.Emoji != 0 || o.URLs != 0 {
		t.Fatalf("Create = %+v, %v", o, err)
	}
	if _, err := r.Offences.Create(ctx, "chan", "twitch", "bob"); !errors.Is(err, ErrOffencesExist) {
		t.Fatalf("expected ErrOffencesExist, got %v", err)
	}
	if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "amy", "urls", "+2"); err != nil {
		t.Fatalf("UpdateOffence: %v", err)
	}

	list, err := r.Offences.List(ctx, "chan", "twitch")
	if err != nil || len(list) != 2 || list[0].User != "amy" || list[0].URLs != 2 {
		t.Fatalf("List = %+v, %v", list, err)
	}
}

func TestOffenceService_GetAttribute(t *testing.T) {
	r, _ := newTestRepository(t)
	rec := domain.UserOffences{Caps: 1, Emoji: 2, URLs: 3}

	for name, want := range map[string]int32{"caps": 1, "emoji": 2, "urls": 3} {
		if v, err := r.Offences.GetAttribute(rec, name); err != nil || v != want {
			t.Fatalf("GetAttribute(%s) = %d, %v; want %d", name, v, err, want)
		}
	}
	if _, err := r.Offences.GetAttribute(rec, "nope"); !errors.Is(err, ErrInvalidAttribute) {
		t.Fatalf("expected ErrInvalidAttribute, got %v", err)
	}
}

func TestOffenceService_ConcurrentFirstWrites(t *testing.T) {
	r, _ := newTestRepository(t)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "spammer", "caps", "+1"); err != nil {
				t.Errorf("UpdateOffence: %v", err)
			}
		}()
	}
	wg.Wait()

	list, _ := r.Offences.List(ctx, "chan", "twitch")
	if len(list) != 1 || list[0].Caps != workers {
		t.Fatalf("expected one record with caps=%d, got %+v", workers, list)
	}
}

func TestOffenceService_UpdateOffence_OutOfRangeIsValidationAndRollsBack(t *testing.T) {
	r, _ := newTestRepository(t)
	ctx := context.Background()

	if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "u", "caps", "@2147483647"); err != nil {
		t.Fatalf("set max: %v", err)
	}
	_, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "u", "caps", "+1")
	if !errors.Is(err, ErrInvalidCount) || Kind(err) != ErrValidation {
		t.Fatalf("expected ErrInvalidCount on overflow, got %v", err)
	}
	got, err := r.Offences.Get(ctx, "chan", "twitch", "u")
	if err != nil || got.Caps != 2147483647 {
		t.Fatalf("expected caps to stay at max, got %+v, %v", got, err)
	}

	if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "other", "urls", "-2147483647"); err != nil {
		t.Fatalf("seed other: %v", err)
	}
	if _, err := r.Offences.UpdateOffence(ctx, "chan", "twitch", "other", "urls", "-5"); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount on underflow, got %v", err)
	}
	got, err = r.Offences.Get(ctx, "chan", "twitch", "other")
	if err != nil || got.URLs != -2147483647 {
		t.Fatalf("expected urls to stay at %d, got %+v, %v", -2147483647, got, err)
	}
}
