package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PublishedPattern is the public, denormalized copy of a draft. DraftID is
// unique: a draft has at most one live published copy.
type PublishedPattern struct {
	ID            uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	DraftID       uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex" json:"draft_id"`
	OwnerID       uuid.UUID                    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Author        string                       `gorm:"column:author;not null" json:"author"`
	CoverImageURL string                       `gorm:"column:cover_image_url" json:"cover_image_url"`
	Title         string                       `gorm:"column:title;not null" json:"title"`
	CraftType     string                       `gorm:"column:craft_type;not null" json:"craft_type"`
	SkillLevel    string                       `gorm:"column:skill_level;not null" json:"skill_level"`
	Sections      datatypes.JSONSlice[Section] `gorm:"column:sections" json:"sections"`
	Tags          datatypes.JSONSlice[string]  `gorm:"column:tags" json:"tags"`
	Materials     datatypes.JSONSlice[string]  `gorm:"column:materials" json:"materials"`
	Reviews       datatypes.JSONSlice[Review]  `gorm:"column:reviews" json:"reviews"`
	DatePublished time.Time                    `gorm:"column:date_published;not null" json:"date_published"`
	CreatedAt     time.Time                    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                    `gorm:"not null" json:"updated_at"`
}

func (PublishedPattern) TableName() string { return "published_pattern" }
