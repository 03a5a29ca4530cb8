package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HashTag is an interest tag extracted from user-entered text. Names are
// stored lowercase without the leading '#'.
type HashTag struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"unique;not null"`
	CreatedAt time.Time
}

func (tag *HashTag) BeforeCreate(tx *gorm.DB) (err error) {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	return
}
