package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	JoinPolicyOpen            = "OPEN"
	JoinPolicyOwnerApproval   = "OWNER_APPROVAL"
	JoinPolicyInviteOnly      = "INVITE_ONLY"
	JoinPolicyOwnerInviteOnly = "OWNER_INVITE_ONLY"
	JoinPolicyFriendsOnly     = "FRIENDS_ONLY"
)

func ValidJoinPolicy(policy string) bool {
	switch policy {
	case JoinPolicyOpen, JoinPolicyOwnerApproval, JoinPolicyInviteOnly,
		JoinPolicyOwnerInviteOnly, JoinPolicyFriendsOnly:
		return true
	}
	return false
}

type Event struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Description string
	OwnerID     *uuid.UUID `gorm:"type:uuid;index"` // nil when imported from an external feed
	Owner       *User      `gorm:"foreignKey:OwnerID"`
	StartDate   time.Time  `gorm:"not null;index"`
	EndDate     *time.Time
	PriceID     uuid.UUID `gorm:"type:uuid;not null"`
	Price       Price
	LocationID  uuid.UUID `gorm:"type:uuid;not null"`
	Location    Location
	JoinPolicy  string `gorm:"not null;default:'OPEN'"`
	Language    string `gorm:"default:'en'"`
	MaxMembers  int    `gorm:"not null"`
	Canceled    *time.Time

	// One-way flags set by the background jobs.
	AddedFriends  bool `gorm:"not null;default:false"`
	NotifiedStart bool `gorm:"not null;default:false"`

	HashTags []HashTag     `gorm:"many2many:event_hash_tags;"`
	Members  []EventMember `gorm:"foreignKey:EventID"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// CheckinEnd is the close of the check-in (and cancellation) window: the end
// date if one was set, otherwise the start date plus the configured period.
func (event *Event) CheckinEnd(checkinPeriod time.Duration) time.Time {
	if event.EndDate != nil {
		return *event.EndDate
	}
	return event.StartDate.Add(checkinPeriod)
}

// EventImport records the external origin of an imported event so repeated
// import runs skip events already present.
type EventImport struct {
	EventID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Source    string    `gorm:"not null;uniqueIndex:idx_import_source"`
	SourceID  string    `gorm:"not null;uniqueIndex:idx_import_source"`
	CreatedAt time.Time
}
