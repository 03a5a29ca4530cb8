package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to exactly one event or one plan.
type Comment struct {
	gorm.Model
	ID       uuid.UUID  `gorm:"type:uuid;primary_key"`
	OwnerID  uuid.UUID  `gorm:"type:uuid;not null"`
	Owner    *User      `gorm:"foreignKey:OwnerID"`
	Message  string     `gorm:"not null"`
	EventID  *uuid.UUID `gorm:"type:uuid;index"`
	PlanID   *uuid.UUID `gorm:"type:uuid;index"`
	HashTags []HashTag  `gorm:"many2many:comment_hash_tags;"`
}

func (comment *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	return
}
