package models

import (
	"time"

	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a named place with a single geographic point. It is immutable
// once geocoded and owned by whichever event or plan references it.
type Location struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	Name            string
	SubThoroughfare string
	Thoroughfare    string
	Locality        string
	AdminArea       string
	PostalCode      string
	Latitude        float64 `gorm:"not null;index"`
	Longitude       float64 `gorm:"not null;index"`
	CreatedAt       time.Time
}

func (location *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	return
}

func (location *Location) Point() geo.Point {
	return geo.Point{Lat: location.Latitude, Lon: location.Longitude}
}
