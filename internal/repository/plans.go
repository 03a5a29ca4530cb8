package repository

import (
	"errors"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) ByID(id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Preload("Location").Preload("HashTags").Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Save(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

func (r *PlanRepository) Delete(plan *models.Plan) error {
	return r.db.Delete(plan).Error
}

// newest orders by recency with id as the deterministic tie-break.
func (r *PlanRepository) newest() *gorm.DB {
	return r.db.Model(&models.Plan{}).
		Preload("Location").Preload("HashTags").
		Order("created_at DESC, id ASC")
}

func (r *PlanRepository) Newest() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.newest().Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) OwnedByAny(owners []uuid.UUID) ([]models.Plan, error) {
	if len(owners) == 0 {
		return nil, nil
	}
	var plans []models.Plan
	err := r.newest().Where("owner_id IN ?", owners).Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) NewestWithinBox(minLat, maxLat, minLon, maxLon float64) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.newest().
		Joins("JOIN locations ON locations.id = plans.location_id").
		Where("locations.latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("locations.longitude BETWEEN ? AND ?", minLon, maxLon).
		Find(&plans).Error
	return plans, err
}

// OwnedOrCommentedBy returns plans the user created or commented on, newest
// first. Used by the history feed.
func (r *PlanRepository) OwnedOrCommentedBy(userID uuid.UUID) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.newest().
		Where("owner_id = ? OR id IN (?)", userID,
			r.db.Model(&models.Comment{}).Select("plan_id").
				Where("owner_id = ? AND plan_id IS NOT NULL", userID)).
		Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) All() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Preload("Location").Preload("HashTags").Find(&plans).Error
	return plans, err
}
