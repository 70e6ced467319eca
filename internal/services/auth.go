package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/normalization"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/types"
	"github.com/yarnscape/yarnscape-backend/internal/utils"
)

type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) (*TokenPair, error)
	LoginUser(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshUser(ctx context.Context) (*TokenPair, error)
	LogoutUser(ctx context.Context) error
	// SetContextFromToken validates the access token and returns a context
	// carrying the authenticated user's request data.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	tokenRepo  repos.UserTokenRepo
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	tokenRepo repos.UserTokenRepo,
	signingKey string,
	accessTTLMinutes int,
	refreshTTLHours int,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:         db,
		log:        serviceLog,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		signingKey: []byte(signingKey),
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLHours) * time.Hour,
	}
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) signToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) parseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.signingKey, nil
	})
	if err != nil {
		return nil, apierr.Unauthorized("invalid token: %v", err)
	}
	if !token.Valid {
		return nil, apierr.Unauthorized("invalid token")
	}
	return claims, nil
}

// issueTokens rotates the user's token row: any existing rows are dropped so
// a login on one device invalidates stale sessions elsewhere.
func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*TokenPair, error) {
	access, err := as.signToken(userID, as.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := as.signToken(userID, as.refreshTTL)
	if err != nil {
		return nil, err
	}
	if err := as.tokenRepo.DeleteByUserID(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear previous tokens: %w", err)
	}
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().UTC().Add(as.refreshTTL),
	}
	if err := as.tokenRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) (*TokenPair, error) {
	utils.NormalizeUserFields(user)
	if err := utils.ValidateRegistration(ctx, as.userRepo, user); err != nil {
		return nil, err
	}
	if err := utils.HashPassword(user); err != nil {
		return nil, err
	}
	user.ID = uuid.New()
	if user.TextSizePref == "" {
		user.TextSizePref = types.TextSizeNormal
	}
	if user.ThemePref == "" {
		user.ThemePref = types.ThemeLight
	}

	var pair *TokenPair
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		p, err := as.issueTokens(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	}); err != nil {
		as.log.Warn("RegisterUser transaction failed", "error", err)
		return nil, err
	}
	as.log.Info("User registered", "userID", user.ID)
	return pair, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*TokenPair, error) {
	// Emails are stored lowercased at registration, so the lookup has to
	// normalize the same way.
	email = normalization.ParseInputString(email)
	if err := utils.ValidateLogin(email, password); err != nil {
		return nil, err
	}
	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid email or password")
	}

	var pair *TokenPair
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := as.issueTokens(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	}); err != nil {
		as.log.Warn("LoginUser transaction failed", "error", err)
		return nil, err
	}
	return pair, nil
}

func (as *authService) RefreshUser(ctx context.Context) (*TokenPair, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return nil, apierr.Unauthorized("no refresh token found in context")
	}
	claims, err := as.parseToken(rd.RefreshToken)
	if err != nil {
		// An expired or malformed refresh token ends the session for good.
		if row, lookupErr := as.tokenRepo.GetByRefreshToken(ctx, nil, rd.RefreshToken); lookupErr == nil {
			if delErr := as.tokenRepo.Delete(ctx, nil, row.ID); delErr != nil {
				as.log.Warn("Failed to delete stale token row", "error", delErr)
			}
		}
		return nil, err
	}
	row, err := as.tokenRepo.GetByRefreshToken(ctx, nil, rd.RefreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("refresh token is no longer valid")
		}
		return nil, fmt.Errorf("failed to load token row: %w", err)
	}
	if row.UserID != claims.UserID {
		return nil, apierr.Unauthorized("refresh token does not match its session")
	}

	var pair *TokenPair
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := as.issueTokens(ctx, tx, claims.UserID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	}); err != nil {
		as.log.Warn("RefreshUser transaction failed", "error", err)
		return nil, err
	}
	return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("no request data found in context")
	}
	if err := as.tokenRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("no access token given")
	}
	claims, err := as.parseToken(tokenString)
	if err != nil {
		return ctx, err
	}
	row, err := as.tokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, apierr.Unauthorized("session has been revoked")
		}
		return ctx, fmt.Errorf("failed to load token row: %w", err)
	}
	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: row.RefreshToken,
		UserID:       claims.UserID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}
