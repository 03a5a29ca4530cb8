package repository

import (
	"errors"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Get(eventID, userID uuid.UUID) (*models.EventMember, error) {
	var member models.EventMember
	err := r.db.Preload("Invite").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) ByID(id uuid.UUID) (*models.EventMember, error) {
	var member models.EventMember
	err := r.db.Preload("Invite").Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Create inserts the membership row, relying on the (event_id, user_id)
// unique index. The loser of two racing joins gets ErrAlreadyMember.
func (r *MemberRepository) Create(member *models.EventMember) error {
	err := r.db.Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrAlreadyMember
	}
	return err
}

// GetOrCreate returns the existing row when one is present, otherwise
// inserts the given one. When a concurrent insert wins the race the winner's
// row is reloaded and returned with created=false.
func (r *MemberRepository) GetOrCreate(member *models.EventMember) (bool, *models.EventMember, error) {
	existing, err := r.Get(member.EventID, member.UserID)
	if err == nil {
		return false, existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, nil, err
	}
	if err := r.db.Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := r.Get(member.EventID, member.UserID)
			return false, existing, err
		}
		return false, nil, err
	}
	return true, member, nil
}

func (r *MemberRepository) Save(member *models.EventMember) error {
	return r.db.Save(member).Error
}

func (r *MemberRepository) Delete(member *models.EventMember) error {
	return r.db.Delete(member).Error
}

func (r *MemberRepository) CheckedIn(eventID uuid.UUID) ([]models.EventMember, error) {
	var members []models.EventMember
	err := r.db.Where("event_id = ? AND checked_in IS NOT NULL", eventID).Find(&members).Error
	return members, err
}

// OfEvent lists members of an event, optionally narrowed by status.
func (r *MemberRepository) OfEvent(eventID uuid.UUID, status string) ([]models.EventMember, error) {
	query := r.db.Preload("User").Preload("User.Profile").Where("event_id = ?", eventID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var members []models.EventMember
	err := query.Find(&members).Error
	return members, err
}

func (r *MemberRepository) UserIDsOfEvent(eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.EventMember{}).
		Where("event_id = ?", eventID).
		Pluck("user_id", &ids).Error
	return ids, err
}

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(invite *models.EventInvite) error {
	return r.db.Create(invite).Error
}

func (r *InviteRepository) Save(invite *models.EventInvite) error {
	return r.db.Save(invite).Error
}
