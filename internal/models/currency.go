package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CurrencyRate is the last fetched conversion rate between two ISO 4217
// codes. A row is usable in either direction (multiply or divide).
type CurrencyRate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Source    string    `gorm:"not null;uniqueIndex:idx_rate_pair"`
	Target    string    `gorm:"not null;uniqueIndex:idx_rate_pair"`
	Rate      float64   `gorm:"not null"`
	UpdatedAt time.Time
}

func (rate *CurrencyRate) BeforeCreate(tx *gorm.DB) (err error) {
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	return
}
