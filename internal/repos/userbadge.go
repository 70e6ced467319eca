package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

// UserBadgeRepo is the append-only achievement ledger. Create ignores
// conflicts on (user, badge name) so re-awarding is a no-op.
type UserBadgeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, badge *types.UserBadge) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error)
}

type userBadgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBadgeRepo(db *gorm.DB, baseLog *logger.Logger) UserBadgeRepo {
	repoLog := baseLog.With("repo", "UserBadgeRepo")
	return &userBadgeRepo{db: db, log: repoLog}
}

func (br *userBadgeRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return br.db
}

func (br *userBadgeRepo) Create(ctx context.Context, tx *gorm.DB, badge *types.UserBadge) error {
	return br.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(badge).Error
}

func (br *userBadgeRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error) {
	var results []*types.UserBadge
	if err := br.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
