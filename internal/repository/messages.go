package repository

import (
	"errors"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) Save(message *models.Message) error {
	return r.db.Save(message).Error
}

func (r *MessageRepository) ByID(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("id = ?", id).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Thread returns the sent messages between two users, newest first, hiding
// each side's deleted copies and the other side's drafts.
func (r *MessageRepository) Thread(currentUser, otherUser uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Sender.Profile").
		Where("(sender_id = ? AND receiver_id = ? AND sender_deleted = false) OR "+
			"(sender_id = ? AND receiver_id = ? AND receiver_deleted = false AND sent IS NOT NULL)",
			currentUser, otherUser, otherUser, currentUser).
		Order("sent DESC NULLS FIRST, created_at DESC").
		Find(&messages).Error
	return messages, err
}

// Inbox returns every sent message involving the user, newest first.
func (r *MessageRepository) Inbox(userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Sender.Profile").
		Where("(sender_id = ? AND sender_deleted = false) OR "+
			"(receiver_id = ? AND receiver_deleted = false)", userID, userID).
		Where("sent IS NOT NULL").
		Order("sent DESC").
		Find(&messages).Error
	return messages, err
}

// DeleteDrafts removes unsent messages from the sender to the receiver.
func (r *MessageRepository) DeleteDrafts(senderID, receiverID uuid.UUID) error {
	return r.db.
		Where("sender_id = ? AND receiver_id = ? AND sent IS NULL", senderID, receiverID).
		Delete(&models.Message{}).Error
}

// MarkOpened stamps every unopened sent message from the other user.
func (r *MessageRepository) MarkOpened(currentUser, otherUser uuid.UUID, at time.Time) error {
	return r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND opened IS NULL AND sent IS NOT NULL",
			otherUser, currentUser).
		Update("opened", at).Error
}
