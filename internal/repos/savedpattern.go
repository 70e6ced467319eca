package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

// SavedPatternRepo persists per-user bookmark snapshots. Upsert keyed by the
// deterministic id keeps saving idempotent.
type SavedPatternRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, saved *types.SavedPattern) error
	GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.SavedPattern, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedPattern, error)
	DeleteByKey(ctx context.Context, tx *gorm.DB, key string) error
}

type savedPatternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedPatternRepo(db *gorm.DB, baseLog *logger.Logger) SavedPatternRepo {
	repoLog := baseLog.With("repo", "SavedPatternRepo")
	return &savedPatternRepo{db: db, log: repoLog}
}

func (sr *savedPatternRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *savedPatternRepo) Upsert(ctx context.Context, tx *gorm.DB, saved *types.SavedPattern) error {
	return sr.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(saved).Error
}

func (sr *savedPatternRepo) GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.SavedPattern, error) {
	var result types.SavedPattern
	if err := sr.conn(tx).WithContext(ctx).
		Where("id = ?", key).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *savedPatternRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedPattern, error) {
	var results []*types.SavedPattern
	if err := sr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *savedPatternRepo) DeleteByKey(ctx context.Context, tx *gorm.DB, key string) error {
	return sr.conn(tx).WithContext(ctx).
		Where("id = ?", key).
		Delete(&types.SavedPattern{}).Error
}
