package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friend is a directed edge from owner to user. A->B and B->A are separate
// rows created independently, each honoring the creating user's
// friend_members preference and carrying its own close flag. Do not collapse
// this into a symmetric relation.
type Friend struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_owner_user"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_owner_user"`
	User      *User      `gorm:"foreignKey:UserID"`
	Close     bool       `gorm:"not null;default:false"`
	Imported  bool       `gorm:"not null;default:false"`
	LastMetID *uuid.UUID `gorm:"type:uuid"` // event where they first met; never overwritten
	LastMet   *Event     `gorm:"foreignKey:LastMetID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (friend *Friend) BeforeCreate(tx *gorm.DB) (err error) {
	if friend.ID == uuid.Nil {
		friend.ID = uuid.New()
	}
	return
}
