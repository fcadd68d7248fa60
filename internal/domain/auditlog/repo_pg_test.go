package auditlog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db/dbtest"
)

func TestRepoPG_ListNewestFirstWithinOneTx(t *testing.T) {
	pool := dbtest.New(t)
	repo := NewRepoPG(pool)
	ctx := context.Background()

	err := db.NewTxManager(pool).WithTx(ctx, func(ctx context.Context) error {
		for i := 1; i <= 5; i++ {
			if err := repo.Append(ctx, &Entry{Action: ActionLogin, Detail: fmt.Sprint(i)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	items, total, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(items) != 5 {
		t.Fatalf("expected 5 entries, got %d (total %d)", len(items), total)
	}
	for i, e := range items {
		if want := fmt.Sprint(5 - i); e.Detail != want {
			t.Errorf("position %d: expected entry %s, got %s", i, want, e.Detail)
		}
	}

	page, _, err := repo.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 || page[0].Detail != "3" || page[1].Detail != "2" {
		t.Errorf("unexpected second page %v", page)
	}
}

func TestRepoPG_GetByID(t *testing.T) {
	pool := dbtest.New(t)
	repo := NewRepoPG(pool)
	ctx := context.Background()

	addr := "10.0.0.1"
	e := &Entry{Action: ActionLogout, Detail: "Logout", SourceAddress: &addr}
	if err := repo.Append(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.RecordedAt.IsZero() {
		t.Error("expected recorded_at to be set")
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Action != ActionLogout || got.AccountID != nil || *got.SourceAddress != addr {
		t.Errorf("unexpected entry %+v", got)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
