package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	TextSizeSmall  = "small"
	TextSizeNormal = "normal"
	TextSizeLarge  = "large"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password     string    `gorm:"not null;column:password" json:"-"`
	DisplayName  string    `gorm:"not null;column:display_name" json:"display_name"`
	TextSizePref string    `gorm:"not null;default:'normal';column:text_size_pref" json:"text_size_pref"`
	ThemePref    string    `gorm:"not null;default:'light';column:theme_pref" json:"theme_pref"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
