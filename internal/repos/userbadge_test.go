package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yarnscape/yarnscape-backend/internal/repos/testutil"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

func TestUserBadgeRepoDuplicateAwardIsNoop(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "badgerepo@example.com")
	repo := NewUserBadgeRepo(db, testutil.Logger(t))

	badge := &types.UserBadge{
		ID:        uuid.New(),
		UserID:    user.ID,
		BadgeName: types.BadgeDesignRookie,
		AwardedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, tx, badge); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A second award of the same badge must not error or duplicate.
	dup := &types.UserBadge{
		ID:        uuid.New(),
		UserID:    user.ID,
		BadgeName: types.BadgeDesignRookie,
		AwardedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, tx, dup); err != nil {
		t.Fatalf("Create duplicate: %v", err)
	}

	listed, err := repo.ListByUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("ListByUser: want 1 got %d", len(listed))
	}
	if listed[0].BadgeName != types.BadgeDesignRookie {
		t.Fatalf("unexpected badge: %q", listed[0].BadgeName)
	}
}
