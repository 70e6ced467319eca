package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/repos/testutil"
)

func TestPatternRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "patternrepo@example.com")
	repo := NewPatternRepo(db, testutil.Logger(t))

	first := testutil.SeedPattern(t, ctx, tx, owner.ID, "Granny Square Blanket")
	second := testutil.SeedPattern(t, ctx, tx, owner.ID, "Chunky Scarf")

	got, err := repo.GetByID(ctx, tx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != first.Title {
		t.Fatalf("GetByID: want title %q got %q", first.Title, got.Title)
	}
	if len(got.Sections) != 1 || got.Sections[0].Instructions == "" {
		t.Fatalf("GetByID: sections did not round trip: %+v", got.Sections)
	}

	listed, err := repo.ListByOwner(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListByOwner: want 2 got %d", len(listed))
	}

	count, err := repo.CountByOwner(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("CountByOwner: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountByOwner: want 2 got %d", count)
	}

	got.Title = "Granny Square Throw"
	if err := repo.Update(ctx, tx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, first.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if updated.Title != "Granny Square Throw" {
		t.Fatalf("Update did not persist: %q", updated.Title)
	}

	if err := repo.Delete(ctx, tx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, second.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID after delete: want ErrRecordNotFound got %v", err)
	}

	if _, err := repo.GetByID(ctx, tx, uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID unknown id: want ErrRecordNotFound got %v", err)
	}
}
