package repo

import (
	"context"
	"errors"
	"testing"
)

func TestCreateRepeat_DefaultsAndDuplicate(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	r, err := CreateRepeat(ctx, db, "chan", "promo", "discord", "now", 300)
	if err != nil {
		t.Fatalf("CreateRepeat: %v", err)
	}
	if r.ID == "" || !r.Enabled || r.Interval != 300 || r.Arguments != "now" || r.CreatedAt.IsZero() {
		t.Fatalf("unexpected repeat: %+v", r)
	}
	if _, err := CreateRepeat(ctx, db, "chan", "promo", "other", "", 60); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := CreateRepeat(ctx, db, "other", "promo", "discord", "", 60); err != nil {
		t.Fatalf("same name on another channel should be allowed, got %v", err)
	}

	got, err := GetRepeat(ctx, db, "chan", "promo")
	if err != nil || got.Command != "discord" || !got.Enabled {
		t.Fatalf("GetRepeat = %+v, %v", got, err)
	}
	if _, err := GetRepeat(ctx, db, "chan", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndDeleteRepeats(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	for _, p := range [][2]string{{"b", "discord"}, {"a", "discord"}, {"c", "socials"}} {
		if _, err := CreateRepeat(ctx, db, "chan", p[0], p[1], "", 60); err != nil {
			t.Fatalf("seed repeat %s: %v", p[0], err)
		}
	}

	list, err := ListRepeats(ctx, db, "chan")
	if err != nil || len(list) != 3 || list[0].Name != "a" || list[2].Name != "c" {
		t.Fatalf("ListRepeats = %+v, %v", list, err)
	}
	if list, _ := ListRepeats(ctx, db, "empty"); list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	n, err := DeleteRepeatsFor(ctx, db, "chan", "discord")
	if err != nil || n != 2 {
		t.Fatalf("DeleteRepeatsFor = %d, %v; want 2", n, err)
	}
	if err := DeleteRepeat(ctx, db, "chan", "c"); err != nil {
		t.Fatalf("DeleteRepeat: %v", err)
	}
	if err := DeleteRepeat(ctx, db, "chan", "c"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleting a missing repeat should be ErrNotFound, got %v", err)
	}
}
