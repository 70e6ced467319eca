package testutil

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}

		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			dbErr = err
			return
		}

		if err := autoMigrateAll(db); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Pattern{},
		&types.PublishedPattern{},
		&types.SavedPattern{},
		&types.TrackingProject{},
		&types.UserBadge{},
	)
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		Password:     "pw",
		DisplayName:  "Seed User",
		TextSizePref: types.TextSizeNormal,
		ThemePref:    types.ThemeLight,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedPattern(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) *types.Pattern {
	tb.Helper()
	p := &types.Pattern{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		CraftType:  types.CraftTypeCrochet,
		SkillLevel: types.SkillLevelBeginner,
		Sections: []types.Section{
			{Title: "Body", Instructions: "ch 10, sc across", PhotoURLs: []string{}},
		},
		Tags:      []string{"seed"},
		Materials: []string{"worsted yarn"},
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed pattern: %v", err)
	}
	return p
}

func SeedPublishedPattern(tb testing.TB, ctx context.Context, tx *gorm.DB, draft *types.Pattern, author string) *types.PublishedPattern {
	tb.Helper()
	p := &types.PublishedPattern{
		ID:            uuid.New(),
		DraftID:       draft.ID,
		OwnerID:       draft.UserID,
		Author:        author,
		Title:         draft.Title,
		CraftType:     draft.CraftType,
		SkillLevel:    draft.SkillLevel,
		Sections:      draft.Sections,
		Tags:          draft.Tags,
		Materials:     draft.Materials,
		Reviews:       []types.Review{},
		DatePublished: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed published pattern: %v", err)
	}
	return p
}
