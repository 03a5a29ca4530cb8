package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"unique;not null"`
	Password string    `gorm:"not null" json:"-"`
	Profile  *Profile
	Settings *UserSettings
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

type Profile struct {
	gorm.Model
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName     string    `gorm:"unique;not null"`
	Gender          string
	Birthday        *time.Time
	About           string
	PortraitURL     string
	DefaultLanguage string    `gorm:"default:'en'"`
	HashTags        []HashTag `gorm:"many2many:profile_hash_tags;"`
}

func (profile *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	return
}

// UserSettings holds per-user toggles. FriendMembers controls whether the
// friend-assignment batch creates edges on this user's behalf.
type UserSettings struct {
	UserID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Premium       bool      `gorm:"not null;default:false"`
	Notifications bool      `gorm:"not null;default:true"`
	FriendMembers bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (UserSettings) TableName() string {
	return "user_settings"
}
