package repository

import (
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) OfEvent(eventID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Owner").Preload("Owner.Profile").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) OfPlan(planID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Owner").Preload("Owner.Profile").
		Where("plan_id = ?", planID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// CommenterIDs returns the distinct users who commented on a plan.
func (r *CommentRepository) CommenterIDs(planID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Comment{}).
		Where("plan_id = ?", planID).
		Distinct().
		Pluck("owner_id", &ids).Error
	return ids, err
}
