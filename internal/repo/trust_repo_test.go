package repo

import (
	"context"
	"errors"
	"testing"
)

func TestTrusts(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	tr, err := CreateTrust(ctx, db, "chan", "alice")
	if err != nil || tr.ID == "" || tr.TrustedUser != "alice" {
		t.Fatalf("CreateTrust = %+v, %v", tr, err)
	}
	if _, err := CreateTrust(ctx, db, "chan", "alice"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := CreateTrust(ctx, db, "chan", "bob"); err != nil {
		t.Fatalf("CreateTrust bob: %v", err)
	}

	got, err := GetTrust(ctx, db, "chan", "alice")
	if err != nil || got.ID != tr.ID {
		t.Fatalf("GetTrust = %+v, %v", got, err)
	}

	list, err := ListTrusts(ctx, db, "chan")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListTrusts = %+v, %v", list, err)
	}

	if err := DeleteTrust(ctx, db, "chan", "alice"); err != nil {
		t.Fatalf("DeleteTrust: %v", err)
	}
	if err := DeleteTrust(ctx, db, "chan", "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetTrust(ctx, db, "chan", "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
