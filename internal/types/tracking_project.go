package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TrackingProject is one user's in-progress execution of one published
// pattern. The pattern fields are a snapshot taken when tracking starts.
// At most one row exists per (user, pattern) while not completed; Completed
// is a one-way flag.
type TrackingProject struct {
	ID            uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID                    `gorm:"type:uuid;not null;index:idx_user_pattern" json:"user_id"`
	User          *User                        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PatternID     uuid.UUID                    `gorm:"type:uuid;not null;index:idx_user_pattern" json:"pattern_id"`
	Title         string                       `gorm:"column:title;not null" json:"title"`
	Author        string                       `gorm:"column:author" json:"author"`
	CraftType     string                       `gorm:"column:craft_type;not null" json:"craft_type"`
	SkillLevel    string                       `gorm:"column:skill_level;not null" json:"skill_level"`
	Sections      datatypes.JSONSlice[Section] `gorm:"column:sections" json:"sections"`
	Tags          datatypes.JSONSlice[string]  `gorm:"column:tags" json:"tags"`
	Materials     datatypes.JSONSlice[string]  `gorm:"column:materials" json:"materials"`
	Goal          string                       `gorm:"column:goal" json:"goal"`
	TimeSpent     float64                      `gorm:"column:time_spent;not null;default:0" json:"time_spent"`
	LastRowIndex  int                          `gorm:"column:last_row_index;not null;default:0" json:"last_row_index"`
	PatternPhotos datatypes.JSONSlice[string]  `gorm:"column:pattern_photos" json:"pattern_photos"`
	Completed     bool                         `gorm:"column:completed;not null;default:false" json:"completed"`
	CreatedAt     time.Time                    `gorm:"not null" json:"created_at"`
	LastEdited    time.Time                    `gorm:"column:last_edited;not null" json:"last_edited"`
}

func (TrackingProject) TableName() string { return "tracking_project" }
