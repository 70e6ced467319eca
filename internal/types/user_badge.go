package types

import (
	"time"

	"github.com/google/uuid"
)

// Badge names awarded at milestone counts.
const (
	BadgeDesignRookie   = "Design Rookie"
	BadgePatternProdigy = "Pattern Prodigy"
	BadgePublishingStar = "Publishing Star"
	BadgeProjectPioneer = "Project Pioneer"
	BadgeProjectPro     = "Project Pro"
)

// UserBadge is one earned achievement. The (user, badge name) unique index
// makes awarding idempotent at the storage layer.
type UserBadge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_badge,unique" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	BadgeName string    `gorm:"column:badge_name;not null;index:idx_user_badge,unique" json:"badge_name"`
	AwardedAt time.Time `gorm:"column:awarded_at;not null" json:"awarded_at"`
}

func (UserBadge) TableName() string { return "user_badge" }
