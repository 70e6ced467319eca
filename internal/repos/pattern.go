package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

// PatternRepo persists private drafts ("my patterns").
type PatternRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pattern *types.Pattern) error
	GetByID(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) (*types.Pattern, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Pattern, error)
	CountByOwner(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, pattern *types.Pattern) error
	Delete(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) error
}

type patternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatternRepo(db *gorm.DB, baseLog *logger.Logger) PatternRepo {
	repoLog := baseLog.With("repo", "PatternRepo")
	return &patternRepo{db: db, log: repoLog}
}

func (pr *patternRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *patternRepo) Create(ctx context.Context, tx *gorm.DB, pattern *types.Pattern) error {
	return pr.conn(tx).WithContext(ctx).Create(pattern).Error
}

func (pr *patternRepo) GetByID(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) (*types.Pattern, error) {
	var result types.Pattern
	if err := pr.conn(tx).WithContext(ctx).
		Where("id = ?", patternID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *patternRepo) ListByOwner(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Pattern, error) {
	var results []*types.Pattern
	if err := pr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *patternRepo) CountByOwner(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := pr.conn(tx).WithContext(ctx).
		Model(&types.Pattern{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *patternRepo) Update(ctx context.Context, tx *gorm.DB, pattern *types.Pattern) error {
	return pr.conn(tx).WithContext(ctx).Save(pattern).Error
}

func (pr *patternRepo) Delete(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) error {
	return pr.conn(tx).WithContext(ctx).
		Where("id = ?", patternID).
		Delete(&types.Pattern{}).Error
}
