package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/sse"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

// Milestone thresholds, keyed by the count that earns the badge.
var (
	CreatedPatternThresholds = map[int]string{
		1: types.BadgeDesignRookie,
		5: types.BadgePatternProdigy,
	}
	PublishedPatternThresholds = map[int]string{
		1: types.BadgePublishingStar,
	}
	CompletedProjectThresholds = map[int]string{
		1: types.BadgeProjectPioneer,
		5: types.BadgeProjectPro,
	}
)

// EvaluateBadge decides whether a count milestone earns a badge. It awards
// iff the count sits exactly on a configured threshold and the badge has not
// already been earned; otherwise it returns "".
func EvaluateBadge(existing map[string]bool, count int, thresholds map[int]string) string {
	name, ok := thresholds[count]
	if !ok {
		return ""
	}
	if existing[name] {
		return ""
	}
	return name
}

type BadgeService interface {
	// AwardForCount runs EvaluateBadge against the user's ledger and appends
	// the earned badge, if any. Returns the awarded badge name or "".
	AwardForCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, count int, thresholds map[int]string) (string, error)
	ListMine(ctx context.Context) ([]*types.UserBadge, error)
}

type badgeService struct {
	db        *gorm.DB
	log       *logger.Logger
	badgeRepo repos.UserBadgeRepo
	notifier  Notifier
}

func NewBadgeService(db *gorm.DB, log *logger.Logger, badgeRepo repos.UserBadgeRepo, notifier Notifier) BadgeService {
	serviceLog := log.With("service", "BadgeService")
	return &badgeService{
		db:        db,
		log:       serviceLog,
		badgeRepo: badgeRepo,
		notifier:  notifier,
	}
}

func (bs *badgeService) AwardForCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, count int, thresholds map[int]string) (string, error) {
	earned, err := bs.badgeRepo.ListByUser(ctx, tx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load badge ledger: %w", err)
	}
	existing := make(map[string]bool, len(earned))
	for _, b := range earned {
		existing[b.BadgeName] = true
	}

	name := EvaluateBadge(existing, count, thresholds)
	if name == "" {
		return "", nil
	}

	badge := &types.UserBadge{
		ID:        uuid.New(),
		UserID:    userID,
		BadgeName: name,
		AwardedAt: time.Now().UTC(),
	}
	if err := bs.badgeRepo.Create(ctx, tx, badge); err != nil {
		return "", fmt.Errorf("failed to award badge %q: %w", name, err)
	}
	bs.log.Info("Badge awarded", "userID", userID, "badge", name)
	if bs.notifier != nil {
		bs.notifier.Notify(ctx, userID, sse.EventBadgeAwarded, map[string]any{"badge_name": name})
	}
	return name, nil
}

func (bs *badgeService) ListMine(ctx context.Context) ([]*types.UserBadge, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	return bs.badgeRepo.ListByUser(ctx, nil, rd.UserID)
}
