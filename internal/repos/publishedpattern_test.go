package repos

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/repos/testutil"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

func TestPublishedPatternRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "pubrepo@example.com")
	draftA := testutil.SeedPattern(t, ctx, tx, owner.ID, "Amigurumi Whale")
	draftB := testutil.SeedPattern(t, ctx, tx, owner.ID, "Lace Shawl")

	repo := NewPublishedPatternRepo(db, testutil.Logger(t))

	pubA := testutil.SeedPublishedPattern(t, ctx, tx, draftA, "Maker A")
	testutil.SeedPublishedPattern(t, ctx, tx, draftB, "Maker A")

	got, err := repo.GetByID(ctx, tx, pubA.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DraftID != draftA.ID {
		t.Fatalf("GetByID: wrong row")
	}

	count, err := repo.CountByOwner(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("CountByOwner: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountByOwner: want 2 got %d", count)
	}

	got.Reviews = append(got.Reviews, types.Review{Content: "lovely pattern"})
	if err := repo.Update(ctx, tx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	reloaded, err := repo.GetByID(ctx, tx, pubA.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(reloaded.Reviews) != 1 || reloaded.Reviews[0].Content != "lovely pattern" {
		t.Fatalf("review did not round trip: %+v", reloaded.Reviews)
	}

	if err := repo.DeleteByDraftID(ctx, tx, draftA.ID); err != nil {
		t.Fatalf("DeleteByDraftID: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, pubA.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID after delete: want ErrRecordNotFound got %v", err)
	}
}
