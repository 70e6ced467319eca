package services

import (
	"testing"

	"github.com/yarnscape/yarnscape-backend/internal/types"
)

func libraryFixture() []*types.PublishedPattern {
	return []*types.PublishedPattern{
		{Title: "Granny Square Blanket", Author: "Ada", CraftType: types.CraftTypeCrochet, SkillLevel: types.SkillLevelBeginner},
		{Title: "Cable Knit Sweater", Author: "Bea", CraftType: types.CraftTypeKnitting, SkillLevel: types.SkillLevelAdvanced},
		{Title: "Amigurumi Whale", Author: "Ada", CraftType: types.CraftTypeCrochet, SkillLevel: types.SkillLevelIntermediate},
	}
}

func TestFilterPatterns(t *testing.T) {
	patterns := libraryFixture()

	cases := []struct {
		name   string
		filter LibraryFilter
		want   []string
	}{
		{
			name:   "empty filter returns everything",
			filter: LibraryFilter{},
			want:   []string{"Granny Square Blanket", "Cable Knit Sweater", "Amigurumi Whale"},
		},
		{
			name:   "query matches title case-insensitively",
			filter: LibraryFilter{Query: "GRANNY"},
			want:   []string{"Granny Square Blanket"},
		},
		{
			name:   "query matches author",
			filter: LibraryFilter{Query: "ada"},
			want:   []string{"Granny Square Blanket", "Amigurumi Whale"},
		},
		{
			name:   "craft type is an exact filter",
			filter: LibraryFilter{CraftType: "crochet"},
			want:   []string{"Granny Square Blanket", "Amigurumi Whale"},
		},
		{
			name:   "skill level is an exact filter",
			filter: LibraryFilter{SkillLevel: "advanced"},
			want:   []string{"Cable Knit Sweater"},
		},
		{
			name:   "filters combine",
			filter: LibraryFilter{Query: "ada", CraftType: "crochet", SkillLevel: "intermediate"},
			want:   []string{"Amigurumi Whale"},
		},
		{
			name:   "no match returns empty",
			filter: LibraryFilter{Query: "macrame"},
			want:   []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterPatterns(patterns, tc.filter)
			if len(got) != len(tc.want) {
				t.Fatalf("want %d patterns, got %d", len(tc.want), len(got))
			}
			for i, p := range got {
				if p.Title != tc.want[i] {
					t.Fatalf("position %d: want %q got %q", i, tc.want[i], p.Title)
				}
			}
		})
	}
}

func TestGetPublishedDetailFallsBackToSavedSnapshot(t *testing.T) {
	env := newTestEnv(t)
	_, designerCtx := env.registerUser(t, "library-designer@example.com")
	_, readerCtx := env.registerUser(t, "library-reader@example.com")

	draft, err := env.patternService.CreateDraft(designerCtx, draftInputFixture("Mosaic Cowl"))
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	pub, err := env.patternService.Publish(designerCtx, draft.ID, "Designer", "", true)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if _, err := env.patternService.Save(readerCtx, pub.ID); err != nil {
		t.Fatalf("Save: %v", err)
	}

	detail, err := env.libraryService.GetPublishedDetail(readerCtx, pub.ID)
	if err != nil {
		t.Fatalf("GetPublishedDetail: %v", err)
	}
	if !detail.Live || !detail.Saved {
		t.Fatalf("want live+saved, got %+v", detail)
	}

	if err := env.patternService.Unpublish(designerCtx, draft.ID); err != nil {
		t.Fatalf("Unpublish: %v", err)
	}

	// The live copy is gone; the saved snapshot keeps the detail readable.
	detail, err = env.libraryService.GetPublishedDetail(readerCtx, pub.ID)
	if err != nil {
		t.Fatalf("GetPublishedDetail after unpublish: %v", err)
	}
	if detail.Live {
		t.Fatalf("want snapshot fallback, got live")
	}
	if detail.Pattern.Title != "Mosaic Cowl" {
		t.Fatalf("snapshot title: got %q", detail.Pattern.Title)
	}

	// A reader who never saved it gets a 404.
	_, strangerCtx := env.registerUser(t, "library-stranger@example.com")
	if _, err := env.libraryService.GetPublishedDetail(strangerCtx, pub.ID); err == nil {
		t.Fatalf("expected not found for un-saved reader")
	}
}
