package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

// PublishedPatternRepo persists the public library copies.
type PublishedPatternRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pattern *types.PublishedPattern) error
	GetByID(ctx context.Context, tx *gorm.DB, publishedID uuid.UUID) (*types.PublishedPattern, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.PublishedPattern, error)
	CountByOwner(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, pattern *types.PublishedPattern) error
	DeleteByDraftID(ctx context.Context, tx *gorm.DB, draftID uuid.UUID) error
}

type publishedPatternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPublishedPatternRepo(db *gorm.DB, baseLog *logger.Logger) PublishedPatternRepo {
	repoLog := baseLog.With("repo", "PublishedPatternRepo")
	return &publishedPatternRepo{db: db, log: repoLog}
}

func (pr *publishedPatternRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *publishedPatternRepo) Create(ctx context.Context, tx *gorm.DB, pattern *types.PublishedPattern) error {
	return pr.conn(tx).WithContext(ctx).Create(pattern).Error
}

func (pr *publishedPatternRepo) GetByID(ctx context.Context, tx *gorm.DB, publishedID uuid.UUID) (*types.PublishedPattern, error) {
	var result types.PublishedPattern
	if err := pr.conn(tx).WithContext(ctx).
		Where("id = ?", publishedID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *publishedPatternRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.PublishedPattern, error) {
	var results []*types.PublishedPattern
	if err := pr.conn(tx).WithContext(ctx).
		Order("date_published desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *publishedPatternRepo) CountByOwner(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := pr.conn(tx).WithContext(ctx).
		Model(&types.PublishedPattern{}).
		Where("owner_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *publishedPatternRepo) Update(ctx context.Context, tx *gorm.DB, pattern *types.PublishedPattern) error {
	return pr.conn(tx).WithContext(ctx).Save(pattern).Error
}

func (pr *publishedPatternRepo) DeleteByDraftID(ctx context.Context, tx *gorm.DB, draftID uuid.UUID) error {
	return pr.conn(tx).WithContext(ctx).
		Where("draft_id = ?", draftID).
		Delete(&types.PublishedPattern{}).Error
}
