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

type DraftInput struct {
	Title      string          `json:"title"`
	CraftType  string          `json:"craft_type"`
	SkillLevel string          `json:"skill_level"`
	Sections   []types.Section `json:"sections"`
	Tags       []string        `json:"tags"`
	Materials  []string        `json:"materials"`
}

// PatternService moves a pattern through draft -> published -> unpublished
// and spins off save/unsave bookmark snapshots.
type PatternService interface {
	CreateDraft(ctx context.Context, input DraftInput) (*types.Pattern, error)
	GetDraft(ctx context.Context, draftID uuid.UUID) (*types.Pattern, error)
	ListDrafts(ctx context.Context) ([]*types.Pattern, error)
	UpdateDraft(ctx context.Context, draftID uuid.UUID, input DraftInput) (*types.Pattern, error)
	DeleteDraft(ctx context.Context, draftID uuid.UUID) error
	Publish(ctx context.Context, draftID uuid.UUID, authorName, coverImageURL string, agreed bool) (*types.PublishedPattern, error)
	Unpublish(ctx context.Context, draftID uuid.UUID) error
	Save(ctx context.Context, publishedID uuid.UUID) (*types.SavedPattern, error)
	Unsave(ctx context.Context, publishedID uuid.UUID) error
	ListSaved(ctx context.Context) ([]*types.SavedPattern, error)
}

type patternService struct {
	db            *gorm.DB
	log           *logger.Logger
	patternRepo   repos.PatternRepo
	publishedRepo repos.PublishedPatternRepo
	savedRepo     repos.SavedPatternRepo
	badgeService  BadgeService
	notifier      Notifier
}

func NewPatternService(
	db *gorm.DB,
	log *logger.Logger,
	patternRepo repos.PatternRepo,
	publishedRepo repos.PublishedPatternRepo,
	savedRepo repos.SavedPatternRepo,
	badgeService BadgeService,
	notifier Notifier,
) PatternService {
	serviceLog := log.With("service", "PatternService")
	return &patternService{
		db:            db,
		log:           serviceLog,
		patternRepo:   patternRepo,
		publishedRepo: publishedRepo,
		savedRepo:     savedRepo,
		badgeService:  badgeService,
		notifier:      notifier,
	}
}

func normalizeDraftInput(input *DraftInput) {
	input.Title = normalization.TrimInputString(input.Title)
	if input.CraftType == "" {
		input.CraftType = types.CraftTypeCrochet
	}
	if input.SkillLevel == "" {
		input.SkillLevel = types.SkillLevelBeginner
	}
	input.CraftType = normalization.ParseInputString(input.CraftType)
	input.SkillLevel = normalization.ParseInputString(input.SkillLevel)
	for i := range input.Sections {
		input.Sections[i].Title = normalization.TrimInputString(input.Sections[i].Title)
		input.Sections[i].Instructions = normalization.TrimInputString(input.Sections[i].Instructions)
		if input.Sections[i].PhotoURLs == nil {
			input.Sections[i].PhotoURLs = []string{}
		}
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}
	if input.Materials == nil {
		input.Materials = []string{}
	}
}

func validateDraftInput(input DraftInput) error {
	if input.Title == "" {
		return apierr.Validation("a pattern title is required")
	}
	if input.CraftType != types.CraftTypeCrochet && input.CraftType != types.CraftTypeKnitting {
		return apierr.Validation("craft type must be crochet or knitting")
	}
	switch input.SkillLevel {
	case types.SkillLevelBeginner, types.SkillLevelIntermediate, types.SkillLevelAdvanced:
	default:
		return apierr.Validation("skill level must be beginner, intermediate or advanced")
	}
	if len(input.Sections) == 0 {
		return apierr.Validation("a pattern needs at least one section")
	}
	for i, s := range input.Sections {
		if s.Title == "" {
			return apierr.Validation("section %d is missing a title", i+1)
		}
		if s.Instructions == "" {
			return apierr.Validation("section %d is missing instructions", i+1)
		}
	}
	return nil
}

func (ps *patternService) CreateDraft(ctx context.Context, input DraftInput) (*types.Pattern, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	normalizeDraftInput(&input)
	if err := validateDraftInput(input); err != nil {
		return nil, err
	}

	pattern := &types.Pattern{
		ID:         uuid.New(),
		UserID:     rd.UserID,
		Title:      input.Title,
		CraftType:  input.CraftType,
		SkillLevel: input.SkillLevel,
		Sections:   input.Sections,
		Tags:       input.Tags,
		Materials:  input.Materials,
		Published:  false,
	}

	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.patternRepo.Create(ctx, tx, pattern); err != nil {
			return fmt.Errorf("failed to create draft: %w", err)
		}
		count, err := ps.patternRepo.CountByOwner(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to count drafts: %w", err)
		}
		if _, err := ps.badgeService.AwardForCount(ctx, tx, rd.UserID, int(count), CreatedPatternThresholds); err != nil {
			return err
		}
		return nil
	}); err != nil {
		ps.log.Warn("CreateDraft transaction failed", "error", err)
		return nil, err
	}
	return pattern, nil
}

func (ps *patternService) loadOwnedDraft(ctx context.Context, tx *gorm.DB, draftID uuid.UUID, userID uuid.UUID) (*types.Pattern, error) {
	draft, err := ps.patternRepo.GetByID(ctx, tx, draftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("pattern %s not found", draftID)
		}
		return nil, fmt.Errorf("failed to load pattern: %w", err)
	}
	if draft.UserID != userID {
		return nil, apierr.Forbidden("pattern %s does not belong to you", draftID)
	}
	return draft, nil
}

func (ps *patternService) GetDraft(ctx context.Context, draftID uuid.UUID) (*types.Pattern, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	return ps.loadOwnedDraft(ctx, nil, draftID, rd.UserID)
}

func (ps *patternService) ListDrafts(ctx context.Context) ([]*types.Pattern, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	return ps.patternRepo.ListByOwner(ctx, nil, rd.UserID)
}

func (ps *patternService) UpdateDraft(ctx context.Context, draftID uuid.UUID, input DraftInput) (*types.Pattern, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	normalizeDraftInput(&input)
	if err := validateDraftInput(input); err != nil {
		return nil, err
	}

	var draft *types.Pattern
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := ps.loadOwnedDraft(ctx, tx, draftID, rd.UserID)
		if err != nil {
			return err
		}
		if d.Published {
			return apierr.Conflict("pattern_published", "unpublish the pattern before editing it")
		}
		d.Title = input.Title
		d.CraftType = input.CraftType
		d.SkillLevel = input.SkillLevel
		d.Sections = input.Sections
		d.Tags = input.Tags
		d.Materials = input.Materials
		if err := ps.patternRepo.Update(ctx, tx, d); err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		draft = d
		return nil
	}); err != nil {
		return nil, err
	}
	return draft, nil
}

func (ps *patternService) DeleteDraft(ctx context.Context, draftID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("no request data found in context")
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := ps.loadOwnedDraft(ctx, tx, draftID, rd.UserID)
		if err != nil {
			return err
		}
		if draft.Published {
			if err := ps.publishedRepo.DeleteByDraftID(ctx, tx, draftID); err != nil {
				return fmt.Errorf("failed to delete published copy: %w", err)
			}
		}
		if err := ps.patternRepo.Delete(ctx, tx, draftID); err != nil {
			return fmt.Errorf("failed to delete draft: %w", err)
		}
		return nil
	})
}

func (ps *patternService) Publish(ctx context.Context, draftID uuid.UUID, authorName, coverImageURL string, agreed bool) (*types.PublishedPattern, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	if !agreed {
		return nil, apierr.Validation("you must agree that the pattern is not copyrighted")
	}
	authorName = normalization.TrimInputString(authorName)
	if authorName == "" {
		return nil, apierr.Validation("an author name is required to publish")
	}

	var published *types.PublishedPattern
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := ps.loadOwnedDraft(ctx, tx, draftID, rd.UserID)
		if err != nil {
			return err
		}
		if draft.Published {
			return apierr.Conflict("already_published", "pattern is already published")
		}
		if err := validateDraftInput(DraftInput{
			Title:      draft.Title,
			CraftType:  draft.CraftType,
			SkillLevel: draft.SkillLevel,
			Sections:   draft.Sections,
			Tags:       draft.Tags,
			Materials:  draft.Materials,
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		published = &types.PublishedPattern{
			ID:            uuid.New(),
			DraftID:       draft.ID,
			OwnerID:       draft.UserID,
			Author:        authorName,
			CoverImageURL: coverImageURL,
			Title:         draft.Title,
			CraftType:     draft.CraftType,
			SkillLevel:    draft.SkillLevel,
			Sections:      draft.Sections,
			Tags:          draft.Tags,
			Materials:     draft.Materials,
			Reviews:       []types.Review{},
			DatePublished: now,
		}
		if err := ps.publishedRepo.Create(ctx, tx, published); err != nil {
			return fmt.Errorf("failed to create published copy: %w", err)
		}
		draft.Published = true
		if err := ps.patternRepo.Update(ctx, tx, draft); err != nil {
			return fmt.Errorf("failed to flag draft as published: %w", err)
		}
		count, err := ps.publishedRepo.CountByOwner(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to count published patterns: %w", err)
		}
		if _, err := ps.badgeService.AwardForCount(ctx, tx, rd.UserID, int(count), PublishedPatternThresholds); err != nil {
			return err
		}
		return nil
	}); err != nil {
		ps.log.Warn("Publish transaction failed", "error", err)
		return nil, err
	}

	if ps.notifier != nil {
		ps.notifier.Notify(ctx, rd.UserID, sse.EventPatternPublished, map[string]any{
			"pattern_id": published.ID,
			"title":      published.Title,
		})
	}
	return published, nil
}

func (ps *patternService) Unpublish(ctx context.Context, draftID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("no request data found in context")
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := ps.loadOwnedDraft(ctx, tx, draftID, rd.UserID)
		if err != nil {
			return err
		}
		if !draft.Published {
			return apierr.Conflict("not_published", "pattern is not published")
		}
		if err := ps.publishedRepo.DeleteByDraftID(ctx, tx, draftID); err != nil {
			return fmt.Errorf("failed to delete published copy: %w", err)
		}
		draft.Published = false
		if err := ps.patternRepo.Update(ctx, tx, draft); err != nil {
			return fmt.Errorf("failed to reset published flag: %w", err)
		}
		return nil
	})
}

func (ps *patternService) Save(ctx context.Context, publishedID uuid.UUID) (*types.SavedPattern, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	pub, err := ps.publishedRepo.GetByID(ctx, nil, publishedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("published pattern %s not found", publishedID)
		}
		return nil, fmt.Errorf("failed to load published pattern: %w", err)
	}

	saved := &types.SavedPattern{
		ID:         types.SavedPatternKey(rd.UserID, pub.ID),
		UserID:     rd.UserID,
		PatternID:  pub.ID,
		Author:     pub.Author,
		Title:      pub.Title,
		CraftType:  pub.CraftType,
		SkillLevel: pub.SkillLevel,
		Sections:   pub.Sections,
		Tags:       pub.Tags,
		Materials:  pub.Materials,
		SavedAt:    time.Now().UTC(),
	}
	if err := ps.savedRepo.Upsert(ctx, nil, saved); err != nil {
		return nil, fmt.Errorf("failed to save pattern: %w", err)
	}
	return saved, nil
}

func (ps *patternService) Unsave(ctx context.Context, publishedID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("no request data found in context")
	}
	return ps.savedRepo.DeleteByKey(ctx, nil, types.SavedPatternKey(rd.UserID, publishedID))
}

func (ps *patternService) ListSaved(ctx context.Context) ([]*types.SavedPattern, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	return ps.savedRepo.ListByUser(ctx, nil, rd.UserID)
}
