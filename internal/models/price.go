package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Price carries the amount in its original currency plus a USD-converted
// amount kept alongside it so range filters compare in one currency.
type Price struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CurrencyCode    string    `gorm:"not null"` // ISO 4217
	Amount          float64   `gorm:"not null"`
	ConvertedAmount float64   `gorm:"not null"` // USD
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (price *Price) BeforeCreate(tx *gorm.DB) (err error) {
	if price.ID == uuid.Nil {
		price.ID = uuid.New()
	}
	return
}
