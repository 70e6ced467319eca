package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/normalization"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/sse"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

// ProgressInput is the full mutable state of a tracking project. SaveProgress
// overwrites with it wholesale; there is no field-level merge, last writer
// wins.
type ProgressInput struct {
	Goal          string   `json:"goal"`
	TimeSpent     float64  `json:"time_spent"`
	LastRowIndex  int      `json:"last_row_index"`
	PatternPhotos []string `json:"pattern_photos"`
}

type CompleteInput struct {
	Review string `json:"review"`
}

type TrackingService interface {
	StartTracking(ctx context.Context, publishedID uuid.UUID, goal string) (*types.TrackingProject, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*types.TrackingProject, error)
	ListProjects(ctx context.Context) ([]*types.TrackingProject, error)
	SaveProgress(ctx context.Context, projectID uuid.UUID, input ProgressInput) (*types.TrackingProject, error)
	MarkCompleted(ctx context.Context, projectID uuid.UUID, input CompleteInput) (*types.TrackingProject, error)
}

type trackingService struct {
	db            *gorm.DB
	log           *logger.Logger
	trackingRepo  repos.TrackingProjectRepo
	publishedRepo repos.PublishedPatternRepo
	badgeService  BadgeService
	notifier      Notifier
}

func NewTrackingService(
	db *gorm.DB,
	log *logger.Logger,
	trackingRepo repos.TrackingProjectRepo,
	publishedRepo repos.PublishedPatternRepo,
	badgeService BadgeService,
	notifier Notifier,
) TrackingService {
	serviceLog := log.With("service", "TrackingService")
	return &trackingService{
		db:            db,
		log:           serviceLog,
		trackingRepo:  trackingRepo,
		publishedRepo: publishedRepo,
		badgeService:  badgeService,
		notifier:      notifier,
	}
}

// StartTracking resumes the user's existing in-progress project for the
// pattern when one exists. A completed project blocks re-tracking the same
// pattern.
func (ts *trackingService) StartTracking(ctx context.Context, publishedID uuid.UUID, goal string) (*types.TrackingProject, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	goal = normalization.TrimInputString(goal)

	existing, err := ts.trackingRepo.GetByUserAndPattern(ctx, nil, rd.UserID, publishedID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up tracking project: %w", err)
	}
	if existing != nil {
		if existing.Completed {
			return nil, apierr.Conflict("already_completed", "you have already completed this pattern")
		}
		return existing, nil
	}

	pub, err := ts.publishedRepo.GetByID(ctx, nil, publishedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("published pattern %s not found", publishedID)
		}
		return nil, fmt.Errorf("failed to load published pattern: %w", err)
	}

	now := time.Now().UTC()
	project := &types.TrackingProject{
		ID:            uuid.New(),
		UserID:        rd.UserID,
		PatternID:     pub.ID,
		Title:         pub.Title,
		Author:        pub.Author,
		CraftType:     pub.CraftType,
		SkillLevel:    pub.SkillLevel,
		Sections:      pub.Sections,
		Tags:          pub.Tags,
		Materials:     pub.Materials,
		Goal:          goal,
		TimeSpent:     0,
		LastRowIndex:  0,
		PatternPhotos: []string{},
		Completed:     false,
		LastEdited:    now,
	}
	if err := ts.trackingRepo.Create(ctx, nil, project); err != nil {
		return nil, fmt.Errorf("failed to create tracking project: %w", err)
	}
	return project, nil
}

func (ts *trackingService) loadOwnedProject(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) (*types.TrackingProject, error) {
	project, err := ts.trackingRepo.GetByID(ctx, tx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("tracking project %s not found", projectID)
		}
		return nil, fmt.Errorf("failed to load tracking project: %w", err)
	}
	if project.UserID != userID {
		return nil, apierr.Forbidden("tracking project %s does not belong to you", projectID)
	}
	return project, nil
}

func (ts *trackingService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.TrackingProject, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	return ts.loadOwnedProject(ctx, nil, projectID, rd.UserID)
}

func (ts *trackingService) ListProjects(ctx context.Context) ([]*types.TrackingProject, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	return ts.trackingRepo.ListByUser(ctx, nil, rd.UserID)
}

func (ts *trackingService) SaveProgress(ctx context.Context, projectID uuid.UUID, input ProgressInput) (*types.TrackingProject, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	if input.TimeSpent < 0 {
		return nil, apierr.Validation("time spent cannot be negative")
	}
	if input.LastRowIndex < 0 {
		return nil, apierr.Validation("row index cannot be negative")
	}
	if input.PatternPhotos == nil {
		input.PatternPhotos = []string{}
	}

	var project *types.TrackingProject
	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := ts.loadOwnedProject(ctx, tx, projectID, rd.UserID)
		if err != nil {
			return err
		}
		if p.Completed {
			return apierr.Conflict("already_completed", "completed projects cannot be edited")
		}
		p.Goal = normalization.TrimInputString(input.Goal)
		p.TimeSpent = input.TimeSpent
		p.LastRowIndex = input.LastRowIndex
		p.PatternPhotos = input.PatternPhotos
		p.LastEdited = time.Now().UTC()
		if err := ts.trackingRepo.Update(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		project = p
		return nil
	}); err != nil {
		return nil, err
	}
	return project, nil
}

// MarkCompleted flips the one-way completed flag, appends an optional review
// to the published pattern when it is still live, and checks the completed
// project milestones.
func (ts *trackingService) MarkCompleted(ctx context.Context, projectID uuid.UUID, input CompleteInput) (*types.TrackingProject, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	review := normalization.TrimInputString(input.Review)

	var project *types.TrackingProject
	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := ts.loadOwnedProject(ctx, tx, projectID, rd.UserID)
		if err != nil {
			return err
		}
		if p.Completed {
			return apierr.Conflict("already_completed", "project is already completed")
		}
		p.Completed = true
		p.LastEdited = time.Now().UTC()
		if err := ts.trackingRepo.Update(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to mark project completed: %w", err)
		}

		if review != "" {
			pub, err := ts.publishedRepo.GetByID(ctx, tx, p.PatternID)
			if err != nil {
				// The pattern may have been unpublished since tracking began;
				// the review is dropped rather than failing the completion.
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("failed to load published pattern: %w", err)
				}
			} else {
				pub.Reviews = append(pub.Reviews, types.Review{
					Content:   review,
					Timestamp: time.Now().UTC(),
				})
				if err := ts.publishedRepo.Update(ctx, tx, pub); err != nil {
					return fmt.Errorf("failed to append review: %w", err)
				}
			}
		}

		count, err := ts.trackingRepo.CountCompletedByUser(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to count completed projects: %w", err)
		}
		if _, err := ts.badgeService.AwardForCount(ctx, tx, rd.UserID, int(count), CompletedProjectThresholds); err != nil {
			return err
		}
		project = p
		return nil
	}); err != nil {
		ts.log.Warn("MarkCompleted transaction failed", "error", err)
		return nil, err
	}

	if ts.notifier != nil {
		ts.notifier.Notify(ctx, rd.UserID, sse.EventTrackingCompleted, map[string]any{
			"project_id": project.ID,
			"title":      project.Title,
		})
	}
	return project, nil
}
