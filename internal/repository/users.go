package repository

import (
	"errors"
	"strings"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists the user with their profile and settings in one
// transaction.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) ByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Profile").Preload("Profile.HashTags").Preload("Settings").
		Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Profile").Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByIDs loads the listed users; unknown ids are silently dropped.
func (r *UserRepository) ByIDs(ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.Preload("Profile").Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// ByEmails matches uploaded contact emails to users, excluding the caller
// and anyone already connected to them.
func (r *UserRepository) ByEmails(emails []string, excludeOwner uuid.UUID) ([]models.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(emails))
	for _, email := range emails {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(email)))
	}
	var users []models.User
	err := r.db.Preload("Profile").
		Where("email IN ?", lowered).
		Where("id <> ?", excludeOwner).
		Where("id NOT IN (?)",
			r.db.Model(&models.Friend{}).Select("user_id").Where("owner_id = ?", excludeOwner)).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) SettingsOf(userID uuid.UUID) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *UserRepository) SaveSettings(settings *models.UserSettings) error {
	return r.db.Save(settings).Error
}

func (r *UserRepository) ProfileOf(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Preload("HashTags").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserRepository) SaveProfile(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *UserRepository) DisplayNameTaken(name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).
		Where("LOWER(display_name) = ?", strings.ToLower(name)).
		Count(&count).Error
	return count > 0, err
}

// InterestNames returns the lowercase hash-tag names on a user's profile.
func (r *UserRepository) InterestNames(userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.Model(&models.HashTag{}).
		Joins("JOIN profile_hash_tags ON profile_hash_tags.hash_tag_id = hash_tags.id").
		Joins("JOIN profiles ON profiles.id = profile_hash_tags.profile_id").
		Where("profiles.user_id = ?", userID).
		Pluck("hash_tags.name", &names).Error
	return names, err
}

func (r *UserRepository) AllProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Preload("HashTags").Find(&profiles).Error
	return profiles, err
}
