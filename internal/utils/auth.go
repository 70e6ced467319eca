package utils

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/normalization"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

func ValidateRegistration(ctx context.Context, userRepo repos.UserRepo, user *types.User) error {
	if user == nil {
		return apierr.Validation("no user given, cannot proceed with registration")
	}
	if user.Email == "" {
		return apierr.Validation("an email is required to register")
	}
	emailExists, err := userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return apierr.New(500, "storage_error", err)
	}
	if emailExists {
		return apierr.Validation("email is already in use")
	}
	if user.Password == "" {
		return apierr.Validation("a password is required to register")
	}
	if user.DisplayName == "" {
		return apierr.Validation("a display name is required to register")
	}
	return nil
}

func ValidateLogin(email, password string) error {
	if email == "" {
		return apierr.Validation("email is required to login")
	}
	if password == "" {
		return apierr.Validation("password is required to login")
	}
	return nil
}

func HashPassword(user *types.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return apierr.New(500, "hash_error", err)
	}
	user.Password = string(hashedPassword)
	return nil
}

func NormalizeUserFields(user *types.User) {
	user.Email = normalization.ParseInputString(user.Email)
	user.DisplayName = normalization.TrimInputString(user.DisplayName)
}
