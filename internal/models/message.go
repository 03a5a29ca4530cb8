package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message between two users. A row with Sent == nil is a draft visible only
// to the sender. Each side deletes its copy independently; the row is removed
// once both sides have deleted it.
type Message struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	SenderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Sender          *User     `gorm:"foreignKey:SenderID"`
	ReceiverID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Receiver        *User     `gorm:"foreignKey:ReceiverID"`
	Body            string    `gorm:"not null"`
	Sent            *time.Time
	Opened          *time.Time
	SenderDeleted   bool `gorm:"not null;default:false"`
	ReceiverDeleted bool `gorm:"not null;default:false"`
	CreatedAt       time.Time
}

func (message *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	return
}
