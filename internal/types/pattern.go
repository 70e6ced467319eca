package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	CraftTypeCrochet  = "crochet"
	CraftTypeKnitting = "knitting"

	SkillLevelBeginner     = "beginner"
	SkillLevelIntermediate = "intermediate"
	SkillLevelAdvanced     = "advanced"
)

// Section is one step of a pattern: a titled block of line-oriented
// instructions plus any photos attached to it. Stored as part of the
// pattern's JSONB document, never as its own row.
type Section struct {
	Title        string   `json:"title"`
	Instructions string   `json:"instructions"`
	PhotoURLs    []string `json:"photoUrls"`
}

// Review is appended to a published pattern when a tracker completes it.
type Review struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Pattern is a private draft. Editable by its owner only; Published flags
// that a copy currently lives in the published table.
type Pattern struct {
	ID         uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID                    `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User                        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title      string                       `gorm:"column:title;not null" json:"title"`
	CraftType  string                       `gorm:"column:craft_type;not null" json:"craft_type"`
	SkillLevel string                       `gorm:"column:skill_level;not null" json:"skill_level"`
	Sections   datatypes.JSONSlice[Section] `gorm:"column:sections" json:"sections"`
	Tags       datatypes.JSONSlice[string]  `gorm:"column:tags" json:"tags"`
	Materials  datatypes.JSONSlice[string]  `gorm:"column:materials" json:"materials"`
	Published  bool                         `gorm:"column:published;not null;default:false" json:"published"`
	CreatedAt  time.Time                    `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time                    `gorm:"not null" json:"updated_at"`
}

func (Pattern) TableName() string { return "my_pattern" }
