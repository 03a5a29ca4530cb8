package repository

import (
	"github.com/farellandr/fastfriends/internal/models"
	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate resolves lowercase tag names to rows, creating missing ones.
func (r *TagRepository) GetOrCreate(names []string) ([]models.HashTag, error) {
	tags := make([]models.HashTag, 0, len(names))
	for _, name := range names {
		var tag models.HashTag
		err := r.db.Where("name = ?", name).
			FirstOrCreate(&tag, models.HashTag{Name: name}).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ReplaceFor rewires a model's hash-tag association to the given set.
func (r *TagRepository) ReplaceFor(model interface{}, tags []models.HashTag) error {
	return r.db.Model(model).Association("HashTags").Replace(tags)
}
