package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SavedPattern is a per-user bookmark snapshot of someone else's published
// pattern. The key is deterministic ("{userID}-{patternID}") so saving twice
// overwrites rather than duplicates, and edits to the original never
// propagate here.
type SavedPattern struct {
	ID         string                       `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID                    `gorm:"type:uuid;not null;index" json:"user_id"`
	PatternID  uuid.UUID                    `gorm:"type:uuid;not null;index" json:"pattern_id"`
	Author     string                       `gorm:"column:author" json:"author"`
	Title      string                       `gorm:"column:title;not null" json:"title"`
	CraftType  string                       `gorm:"column:craft_type;not null" json:"craft_type"`
	SkillLevel string                       `gorm:"column:skill_level;not null" json:"skill_level"`
	Sections   datatypes.JSONSlice[Section] `gorm:"column:sections" json:"sections"`
	Tags       datatypes.JSONSlice[string]  `gorm:"column:tags" json:"tags"`
	Materials  datatypes.JSONSlice[string]  `gorm:"column:materials" json:"materials"`
	SavedAt    time.Time                    `gorm:"column:saved_at;not null" json:"saved_at"`
}

func (SavedPattern) TableName() string { return "saved_pattern" }

// SavedPatternKey builds the deterministic row key for a (user, pattern)
// bookmark.
func SavedPatternKey(userID, patternID uuid.UUID) string {
	return userID.String() + "-" + patternID.String()
}
