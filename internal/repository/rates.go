package repository

import (
	"errors"

	"github.com/farellandr/fastfriends/internal/models"
	"gorm.io/gorm"
)

type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

// Pair finds a stored rate between two codes in either direction.
func (r *RateRepository) Pair(source, target string) (*models.CurrencyRate, error) {
	var rate models.CurrencyRate
	err := r.db.
		Where("(source = ? AND target = ?) OR (source = ? AND target = ?)",
			source, target, target, source).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *RateRepository) Save(rate *models.CurrencyRate) error {
	return r.db.Save(rate).Error
}
