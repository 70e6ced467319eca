package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yarnscape/yarnscape-backend/internal/logger"
	"github.com/yarnscape/yarnscape-backend/internal/repos"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/sse"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

// recordingNotifier captures events instead of pushing them at a hub.
type recordingNotifier struct {
	mu     sync.Mutex
	events []sse.Event
}

func (rn *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, event sse.Event, _ any) {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.events = append(rn.events, event)
}

func (rn *recordingNotifier) has(event sse.Event) bool {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	for _, e := range rn.events {
		if e == event {
			return true
		}
	}
	return false
}

type testEnv struct {
	db            *gorm.DB
	log           *logger.Logger
	notifier      *recordingNotifier
	userRepo      repos.UserRepo
	tokenRepo     repos.UserTokenRepo
	patternRepo   repos.PatternRepo
	publishedRepo repos.PublishedPatternRepo
	savedRepo     repos.SavedPatternRepo
	trackingRepo  repos.TrackingProjectRepo
	badgeRepo     repos.UserBadgeRepo

	authService     AuthService
	userService     UserService
	badgeService    BadgeService
	patternService  PatternService
	trackingService TrackingService
	libraryService  LibraryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)

	// A named in-memory database so every pooled connection sees the same
	// data; the name keeps parallel tests isolated from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Pattern{},
		&types.PublishedPattern{},
		&types.SavedPattern{},
		&types.TrackingProject{},
		&types.UserBadge{},
	); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	env := &testEnv{
		db:            db,
		log:           log,
		notifier:      &recordingNotifier{},
		userRepo:      repos.NewUserRepo(db, log),
		tokenRepo:     repos.NewUserTokenRepo(db, log),
		patternRepo:   repos.NewPatternRepo(db, log),
		publishedRepo: repos.NewPublishedPatternRepo(db, log),
		savedRepo:     repos.NewSavedPatternRepo(db, log),
		trackingRepo:  repos.NewTrackingProjectRepo(db, log),
		badgeRepo:     repos.NewUserBadgeRepo(db, log),
	}
	env.authService = NewAuthService(db, log, env.userRepo, env.tokenRepo, "test-secret", 60, 24)
	env.userService = NewUserService(db, log, env.userRepo)
	env.badgeService = NewBadgeService(db, log, env.badgeRepo, env.notifier)
	env.patternService = NewPatternService(db, log, env.patternRepo, env.publishedRepo, env.savedRepo, env.badgeService, env.notifier)
	env.trackingService = NewTrackingService(db, log, env.trackingRepo, env.publishedRepo, env.badgeService, env.notifier)
	env.libraryService = NewLibraryService(log, env.publishedRepo, env.savedRepo)
	return env
}

func (env *testEnv) registerUser(t *testing.T, email string) (*types.User, context.Context) {
	t.Helper()
	user := &types.User{
		Email:       email,
		Password:    "hunter2hunter2",
		DisplayName: "Test Maker",
	}
	if _, err := env.authService.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})
	return user, ctx
}

func draftInputFixture(title string) DraftInput {
	return DraftInput{
		Title:      title,
		CraftType:  types.CraftTypeCrochet,
		SkillLevel: types.SkillLevelBeginner,
		Sections: []types.Section{
			{Title: "Body", Instructions: "ch 10, sc in each ch across", PhotoURLs: []string{}},
		},
		Tags:      []string{"cozy"},
		Materials: []string{"worsted yarn", "4mm hook"},
	}
}
