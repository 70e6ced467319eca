package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

type TrackingProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, project *types.TrackingProject) error
	GetByID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.TrackingProject, error)
	GetByUserAndPattern(ctx context.Context, tx *gorm.DB, userID, patternID uuid.UUID) (*types.TrackingProject, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TrackingProject, error)
	CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, project *types.TrackingProject) error
}

type trackingProjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackingProjectRepo(db *gorm.DB, baseLog *logger.Logger) TrackingProjectRepo {
	repoLog := baseLog.With("repo", "TrackingProjectRepo")
	return &trackingProjectRepo{db: db, log: repoLog}
}

func (tr *trackingProjectRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

func (tr *trackingProjectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.TrackingProject) error {
	return tr.conn(tx).WithContext(ctx).Create(project).Error
}

func (tr *trackingProjectRepo) GetByID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.TrackingProject, error) {
	var result types.TrackingProject
	if err := tr.conn(tx).WithContext(ctx).
		Where("id = ?", projectID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *trackingProjectRepo) GetByUserAndPattern(ctx context.Context, tx *gorm.DB, userID, patternID uuid.UUID) (*types.TrackingProject, error) {
	var result types.TrackingProject
	if err := tr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND pattern_id = ?", userID, patternID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *trackingProjectRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TrackingProject, error) {
	var results []*types.TrackingProject
	if err := tr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_edited desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *trackingProjectRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := tr.conn(tx).WithContext(ctx).
		Model(&types.TrackingProject{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (tr *trackingProjectRepo) Update(ctx context.Context, tx *gorm.DB, project *types.TrackingProject) error {
	return tr.conn(tx).WithContext(ctx).Save(project).Error
}
