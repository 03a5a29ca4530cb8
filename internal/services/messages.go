package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/notify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MessageService handles direct messages. Sending replaces any draft toward
// the same receiver; opening a thread marks the other side's messages read.
type MessageService struct {
	messages   MessageStore
	users      UserStore
	dispatcher notify.Dispatcher
}

func NewMessageService(messages MessageStore, users UserStore, dispatcher notify.Dispatcher) *MessageService {
	return &MessageService{messages: messages, users: users, dispatcher: dispatcher}
}

// Send stores the message. With draft true the row stays invisible to the
// receiver; sending for real first drops older drafts to the same receiver.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uuid.UUID, body string, draft bool) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body is required", models.ErrInvalidInput)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", models.ErrInvalidInput)
	}
	if _, err := s.users.ByID(receiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
	}
	if !draft {
		if err := s.messages.DeleteDrafts(senderID, receiverID); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		message.Sent = &now
	}
	if err := s.messages.Create(message); err != nil {
		return nil, err
	}

	if !draft {
		sender, err := s.users.ByID(senderID)
		if err == nil {
			if err := s.dispatcher.Notify(ctx, []uuid.UUID{receiverID},
				notify.MessagePayload(message.ID, message.Body, actorOf(sender))); err != nil {
				logrus.WithField("message", message.ID).Errorf("notification dispatch failed: %v", err)
			}
		}
	}
	return message, nil
}

// Thread returns the conversation with the other user and marks their sent
// messages opened.
func (s *MessageService) Thread(currentUser, otherUser uuid.UUID) ([]models.Message, error) {
	messages, err := s.messages.Thread(currentUser, otherUser)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkOpened(currentUser, otherUser, time.Now().UTC()); err != nil {
		logrus.WithField("user", currentUser).Warnf("failed to mark thread opened: %v", err)
	}
	return messages, nil
}

// Inbox lists the newest message per correspondent.
func (s *MessageService) Inbox(userID uuid.UUID) ([]models.Message, error) {
	return s.messages.Inbox(userID)
}

// Delete hides the caller's copy. Once both sides have deleted, the row can
// go away entirely.
func (s *MessageService) Delete(messageID, userID uuid.UUID) error {
	message, err := s.messages.ByID(messageID)
	if err != nil {
		return err
	}
	switch userID {
	case message.SenderID:
		message.SenderDeleted = true
	case message.ReceiverID:
		message.ReceiverDeleted = true
	default:
		return models.ErrForbidden
	}
	return s.messages.Save(message)
}
