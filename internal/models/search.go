package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SearchKindEvent   = "event"
	SearchKindPlan    = "plan"
	SearchKindProfile = "profile"
)

// SearchDocument is a denormalized row rebuilt by the index-refresh worker.
// Full-text search reads these; category browsing never does.
type SearchDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind       string    `gorm:"not null;uniqueIndex:idx_search_ref"`
	RefID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_search_ref"`
	Name       string
	Body       string
	Tags       string // space-separated lowercase tag names
	Latitude   float64
	Longitude  float64
	StartDate  *time.Time
	EndDate    *time.Time
	PriceUSD   float64
	Currency   string
	MaxMembers int
	JoinPolicy string
	UpdatedAt  time.Time
}

func (doc *SearchDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	return
}
