package repository

import (
	"errors"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) Get(ownerID, userID uuid.UUID) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.Where("owner_id = ? AND user_id = ?", ownerID, userID).First(&friend).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

func (r *FriendRepository) ByID(id uuid.UUID) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.Where("id = ?", id).First(&friend).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

// GetOrCreate inserts the edge unless one already exists for the
// (owner, user) pair. Existing edges are returned untouched, which is what
// keeps last_met pinned to the first meeting.
func (r *FriendRepository) GetOrCreate(edge *models.Friend) (bool, *models.Friend, error) {
	existing, err := r.Get(edge.OwnerID, edge.UserID)
	if err == nil {
		return false, existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, nil, err
	}
	if err := r.db.Create(edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := r.Get(edge.OwnerID, edge.UserID)
			return false, existing, err
		}
		return false, nil, err
	}
	return true, edge, nil
}

func (r *FriendRepository) Save(friend *models.Friend) error {
	return r.db.Save(friend).Error
}

const (
	FriendOrderName   = "NAME"
	FriendOrderClose  = "FRIEND"
	FriendOrderRecent = "RECENT"
)

// Of lists the outgoing edges of a user. excludeUsers drops edges pointing at
// the given users (already-member filtering in the invite picker).
func (r *FriendRepository) Of(ownerID uuid.UUID, order string, excludeUsers []uuid.UUID) ([]models.Friend, error) {
	query := r.db.Preload("User").Preload("User.Profile").Where("owner_id = ?", ownerID)
	if len(excludeUsers) > 0 {
		query = query.Where("user_id NOT IN ?", excludeUsers)
	}
	switch order {
	case FriendOrderName:
		query = query.Joins("JOIN profiles ON profiles.user_id = friends.user_id").
			Order("profiles.display_name ASC")
	case FriendOrderClose:
		query = query.Where("close = true").
			Joins("JOIN profiles ON profiles.user_id = friends.user_id").
			Order("profiles.display_name ASC")
	default:
		query = query.Joins("LEFT JOIN events ON events.id = friends.last_met_id").
			Order("events.start_date DESC NULLS LAST")
	}
	var friends []models.Friend
	err := query.Find(&friends).Error
	return friends, err
}

func (r *FriendRepository) CloseUserIDs(ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Friend{}).
		Where("owner_id = ? AND close = true", ownerID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *FriendRepository) CloseUserIDsOfAny(owners []uuid.UUID) ([]uuid.UUID, error) {
	if len(owners) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.Model(&models.Friend{}).
		Where("owner_id IN ? AND close = true", owners).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

// ConnectedUserIDs returns users the owner is connected to through a close or
// imported edge. This is the set mutual-friend counts intersect.
func (r *FriendRepository) ConnectedUserIDs(ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Friend{}).
		Where("owner_id = ? AND (close = true OR imported = true)", ownerID).
		Pluck("user_id", &ids).Error
	return ids, err
}
