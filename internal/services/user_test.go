package services

import (
	"testing"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/types"
)

func TestUpdatePreferences(t *testing.T) {
	env := newTestEnv(t)
	user, ctx := env.registerUser(t, "prefs@example.com")

	me, err := env.userService.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.ID != user.ID {
		t.Fatalf("GetMe returned wrong user")
	}
	if me.TextSizePref != types.TextSizeNormal || me.ThemePref != types.ThemeLight {
		t.Fatalf("unexpected defaults: %+v", me)
	}

	updated, err := env.userService.UpdatePreferences(ctx, PreferencesInput{
		TextSizePref: "Large",
		ThemePref:    "DARK",
	})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if updated.TextSizePref != types.TextSizeLarge || updated.ThemePref != types.ThemeDark {
		t.Fatalf("preferences not applied: %+v", updated)
	}

	if _, err := env.userService.UpdatePreferences(ctx, PreferencesInput{
		TextSizePref: "enormous",
		ThemePref:    types.ThemeLight,
	}); apierr.StatusOf(err) != 400 {
		t.Fatalf("bad text size: want 400 got %v", err)
	}
	if _, err := env.userService.UpdatePreferences(ctx, PreferencesInput{
		TextSizePref: types.TextSizeSmall,
		ThemePref:    "sepia",
	}); apierr.StatusOf(err) != 400 {
		t.Fatalf("bad theme: want 400 got %v", err)
	}
}
