package services

import (
	"testing"

	"github.com/yarnscape/yarnscape-backend/internal/sse"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

func TestEvaluateBadge(t *testing.T) {
	cases := []struct {
		name       string
		existing   map[string]bool
		count      int
		thresholds map[int]string
		want       string
	}{
		{
			name:       "first pattern earns design rookie",
			existing:   map[string]bool{},
			count:      1,
			thresholds: CreatedPatternThresholds,
			want:       types.BadgeDesignRookie,
		},
		{
			name:       "fifth pattern earns pattern prodigy",
			existing:   map[string]bool{types.BadgeDesignRookie: true},
			count:      5,
			thresholds: CreatedPatternThresholds,
			want:       types.BadgePatternProdigy,
		},
		{
			name:       "count between thresholds earns nothing",
			existing:   map[string]bool{types.BadgeDesignRookie: true},
			count:      3,
			thresholds: CreatedPatternThresholds,
			want:       "",
		},
		{
			name:       "already earned badge is not re-awarded",
			existing:   map[string]bool{types.BadgeDesignRookie: true},
			count:      1,
			thresholds: CreatedPatternThresholds,
			want:       "",
		},
		{
			name:       "count past threshold earns nothing",
			existing:   map[string]bool{},
			count:      6,
			thresholds: CreatedPatternThresholds,
			want:       "",
		},
		{
			name:       "first publish earns publishing star",
			existing:   map[string]bool{},
			count:      1,
			thresholds: PublishedPatternThresholds,
			want:       types.BadgePublishingStar,
		},
		{
			name:       "first completed project earns project pioneer",
			existing:   map[string]bool{},
			count:      1,
			thresholds: CompletedProjectThresholds,
			want:       types.BadgeProjectPioneer,
		},
		{
			name:       "fifth completed project earns project pro",
			existing:   map[string]bool{types.BadgeProjectPioneer: true},
			count:      5,
			thresholds: CompletedProjectThresholds,
			want:       types.BadgeProjectPro,
		},
		{
			name:       "zero count earns nothing",
			existing:   map[string]bool{},
			count:      0,
			thresholds: CreatedPatternThresholds,
			want:       "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateBadge(tc.existing, tc.count, tc.thresholds)
			if got != tc.want {
				t.Fatalf("EvaluateBadge: want %q got %q", tc.want, got)
			}
		})
	}
}

func TestAwardForCountPersistsAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	user, ctx := env.registerUser(t, "badges@example.com")

	name, err := env.badgeService.AwardForCount(ctx, nil, user.ID, 1, CreatedPatternThresholds)
	if err != nil {
		t.Fatalf("AwardForCount: %v", err)
	}
	if name != types.BadgeDesignRookie {
		t.Fatalf("want %q got %q", types.BadgeDesignRookie, name)
	}

	// Re-awarding the same milestone is a no-op.
	name, err = env.badgeService.AwardForCount(ctx, nil, user.ID, 1, CreatedPatternThresholds)
	if err != nil {
		t.Fatalf("AwardForCount again: %v", err)
	}
	if name != "" {
		t.Fatalf("duplicate award: want empty got %q", name)
	}

	badges, err := env.badgeService.ListMine(ctx)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(badges) != 1 {
		t.Fatalf("ListMine: want 1 got %d", len(badges))
	}
	if !env.notifier.has(sse.EventBadgeAwarded) {
		t.Fatalf("expected a BadgeAwarded event")
	}
}
