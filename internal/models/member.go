package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MemberRequested = "REQUESTED" // requesting to join
	MemberInvited   = "INVITED"   // invited by a member
	MemberAccepted  = "ACCEPTED"  // confirmed
	MemberDeclined  = "DECLINED"
)

// EventMember links a user to an event. The composite unique index on
// (event_id, user_id) is the concurrency guard for membership transitions:
// two racing joins produce exactly one row.
type EventMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	User        *User     `gorm:"foreignKey:UserID"`
	Status      string    `gorm:"not null;default:'REQUESTED'"`
	ViewedEvent time.Time `gorm:"not null"`
	CheckedIn   *time.Time
	InviteID    *uuid.UUID   `gorm:"type:uuid"`
	Invite      *EventInvite `gorm:"foreignKey:InviteID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (member *EventMember) BeforeCreate(tx *gorm.DB) (err error) {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	return
}

type EventInvite struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null"`
	Sender     *User     `gorm:"foreignKey:SenderID"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null"`
	Receiver   *User     `gorm:"foreignKey:ReceiverID"`
	Sent       time.Time `gorm:"not null"`
	Responded  *time.Time
	Accepted   bool `gorm:"not null;default:false"`
}

func (invite *EventInvite) BeforeCreate(tx *gorm.DB) (err error) {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	return
}
