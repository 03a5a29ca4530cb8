package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan is a lighter-weight counterpart to Event: no time window and no
// membership, interaction happens only through comments.
type Plan struct {
	gorm.Model
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner      *User     `gorm:"foreignKey:OwnerID"`
	Text       string    `gorm:"not null"`
	LocationID uuid.UUID `gorm:"type:uuid;not null"`
	Location   Location
	Language   string    `gorm:"default:'en'"`
	HashTags   []HashTag `gorm:"many2many:plan_hash_tags;"`
}

func (plan *Plan) BeforeCreate(tx *gorm.DB) (err error) {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	return
}
