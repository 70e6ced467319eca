package services

import (
	"context"
	"testing"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := &types.User{
		Email:       "Knitter@Example.com",
		Password:    "correct horse battery",
		DisplayName: "  Knitter  ",
	}
	pair, err := env.authService.RegisterUser(ctx, user)
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("empty token pair")
	}
	if user.Email != "knitter@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.DisplayName != "Knitter" {
		t.Fatalf("display name not trimmed: %q", user.DisplayName)
	}
	if user.Password == "correct horse battery" {
		t.Fatalf("password stored in the clear")
	}

	// Duplicate email rejected.
	dup := &types.User{Email: "knitter@example.com", Password: "pw-pw-pw", DisplayName: "Dup"}
	if _, err := env.authService.RegisterUser(ctx, dup); apierr.StatusOf(err) != 400 {
		t.Fatalf("duplicate email: want 400 got %v", err)
	}

	// Login is case-insensitive: both the stored lowercase form and the
	// casing the user actually registered with must work.
	if _, err := env.authService.LoginUser(ctx, "knitter@example.com", "correct horse battery"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if _, err := env.authService.LoginUser(ctx, "Knitter@Example.com", "correct horse battery"); err != nil {
		t.Fatalf("LoginUser with registered casing: %v", err)
	}
	if _, err := env.authService.LoginUser(ctx, "knitter@example.com", "wrong"); apierr.StatusOf(err) != 401 {
		t.Fatalf("wrong password: want 401 got %v", err)
	}
	if _, err := env.authService.LoginUser(ctx, "nobody@example.com", "whatever"); apierr.StatusOf(err) != 401 {
		t.Fatalf("unknown email: want 401 got %v", err)
	}
}

func TestSetContextFromToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := &types.User{Email: "session@example.com", Password: "pw-pw-pw", DisplayName: "S"}
	pair, err := env.authService.RegisterUser(ctx, user)
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	authed, err := env.authService.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data not set: %+v", rd)
	}

	if _, err := env.authService.SetContextFromToken(ctx, "garbage"); apierr.StatusOf(err) != 401 {
		t.Fatalf("garbage token: want 401 got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := &types.User{Email: "refresh@example.com", Password: "pw-pw-pw", DisplayName: "R"}
	pair, err := env.authService.RegisterUser(ctx, user)
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	rctx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: pair.RefreshToken})
	rotated, err := env.authService.RefreshUser(rctx)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if rotated.AccessToken == pair.AccessToken {
		t.Fatalf("access token not rotated")
	}

	// The old access token is revoked by the rotation.
	if _, err := env.authService.SetContextFromToken(ctx, pair.AccessToken); apierr.StatusOf(err) != 401 {
		t.Fatalf("stale access token: want 401 got %v", err)
	}
	if _, err := env.authService.SetContextFromToken(ctx, rotated.AccessToken); err != nil {
		t.Fatalf("rotated access token rejected: %v", err)
	}

	// The old refresh token is dead too.
	if _, err := env.authService.RefreshUser(rctx); apierr.StatusOf(err) != 401 {
		t.Fatalf("stale refresh token: want 401 got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := &types.User{Email: "logout@example.com", Password: "pw-pw-pw", DisplayName: "L"}
	pair, err := env.authService.RegisterUser(ctx, user)
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	authed, err := env.authService.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if err := env.authService.LogoutUser(authed); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if _, err := env.authService.SetContextFromToken(ctx, pair.AccessToken); apierr.StatusOf(err) != 401 {
		t.Fatalf("token after logout: want 401 got %v", err)
	}
}
