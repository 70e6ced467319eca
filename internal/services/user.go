package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/normalization"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

type PreferencesInput struct {
	TextSizePref string `json:"text_size_pref"`
	ThemePref    string `json:"theme_pref"`
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdatePreferences(ctx context.Context, input PreferencesInput) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user %s not found", rd.UserID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (us *userService) UpdatePreferences(ctx context.Context, input PreferencesInput) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("no request data found in context")
	}

	input.TextSizePref = normalization.ParseInputString(input.TextSizePref)
	input.ThemePref = normalization.ParseInputString(input.ThemePref)
	switch input.TextSizePref {
	case types.TextSizeSmall, types.TextSizeNormal, types.TextSizeLarge:
	default:
		return nil, apierr.Validation("text size must be small, normal or large")
	}
	switch input.ThemePref {
	case types.ThemeLight, types.ThemeDark:
	default:
		return nil, apierr.Validation("theme must be light or dark")
	}

	var user *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := us.userRepo.GetByID(ctx, tx, rd.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("user %s not found", rd.UserID)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		u.TextSizePref = input.TextSizePref
		u.ThemePref = input.ThemePref
		if err := us.userRepo.Update(ctx, tx, u); err != nil {
			return fmt.Errorf("failed to update preferences: %w", err)
		}
		user = u
		return nil
	}); err != nil {
		return nil, err
	}
	return user, nil
}
