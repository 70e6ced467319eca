package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/normalization"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

type LibraryFilter struct {
	Query      string
	CraftType  string
	SkillLevel string
}

// PatternDetail is a published pattern plus the caller's relationship to it.
// Live is false when the detail was served from the caller's saved snapshot
// because the original has since been unpublished.
type PatternDetail struct {
	Pattern *types.PublishedPattern `json:"pattern"`
	Saved   bool                    `json:"saved"`
	Live    bool                    `json:"live"`
}

type LibraryService interface {
	ListPublished(ctx context.Context, filter LibraryFilter) ([]*types.PublishedPattern, error)
	GetPublishedDetail(ctx context.Context, publishedID uuid.UUID) (*PatternDetail, error)
}

type libraryService struct {
	log           *logger.Logger
	publishedRepo repos.PublishedPatternRepo
	savedRepo     repos.SavedPatternRepo
}

func NewLibraryService(log *logger.Logger, publishedRepo repos.PublishedPatternRepo, savedRepo repos.SavedPatternRepo) LibraryService {
	serviceLog := log.With("service", "LibraryService")
	return &libraryService{
		log:           serviceLog,
		publishedRepo: publishedRepo,
		savedRepo:     savedRepo,
	}
}

// FilterPatterns narrows the library in memory: a case-insensitive substring
// match on title or author, and exact matches on craft type and skill level.
// Empty filter fields match everything.
func FilterPatterns(patterns []*types.PublishedPattern, filter LibraryFilter) []*types.PublishedPattern {
	query := normalization.ParseInputString(filter.Query)
	craftType := normalization.ParseInputString(filter.CraftType)
	skillLevel := normalization.ParseInputString(filter.SkillLevel)

	out := make([]*types.PublishedPattern, 0, len(patterns))
	for _, p := range patterns {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Author), query) {
			continue
		}
		if craftType != "" && p.CraftType != craftType {
			continue
		}
		if skillLevel != "" && p.SkillLevel != skillLevel {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (ls *libraryService) ListPublished(ctx context.Context, filter LibraryFilter) ([]*types.PublishedPattern, error) {
	patterns, err := ls.publishedRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list published patterns: %w", err)
	}
	return FilterPatterns(patterns, filter), nil
}

// GetPublishedDetail loads a published pattern by id. When the live copy is
// gone it falls back to the caller's saved snapshot, so a saved pattern stays
// readable after the designer unpublishes it.
func (ls *libraryService) GetPublishedDetail(ctx context.Context, publishedID uuid.UUID) (*PatternDetail, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}

	saved, err := ls.savedRepo.GetByKey(ctx, nil, types.SavedPatternKey(rd.UserID, publishedID))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up saved pattern: %w", err)
	}

	pub, err := ls.publishedRepo.GetByID(ctx, nil, publishedID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load published pattern: %w", err)
		}
		if saved == nil {
			return nil, apierr.NotFound("published pattern %s not found", publishedID)
		}
		return &PatternDetail{
			Pattern: &types.PublishedPattern{
				ID:         saved.PatternID,
				Author:     saved.Author,
				Title:      saved.Title,
				CraftType:  saved.CraftType,
				SkillLevel: saved.SkillLevel,
				Sections:   saved.Sections,
				Tags:       saved.Tags,
				Materials:  saved.Materials,
			},
			Saved: true,
			Live:  false,
		}, nil
	}

	return &PatternDetail{
		Pattern: pub,
		Saved:   saved != nil,
		Live:    true,
	}, nil
}
