// Package notify is the boundary to push/email delivery. The core emits
// structured payloads here after a state transition commits; delivery is
// best-effort and a failure never rolls the transition back.
package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Dispatcher interface {
	// Notify fans a payload out to the given users. Fire-and-forget:
	// implementations log failures and return nil to the caller's hot path.
	Notify(ctx context.Context, users []uuid.UUID, payload Payload) error
}

// Payload is one keyed structure per notification type, mirroring what the
// mobile clients consume.
type Payload struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

const (
	TypeEventInvite     = "EVENT_INVITE"
	TypeEventCancel     = "EVENT_CANCEL"
	TypeEventUpdate     = "EVENT_UPDATE"
	TypeCheckinReminder = "EVENT_CHECKIN"
	TypeEventComment    = "EVENT_COMMENT"
	TypePlanComment     = "PLAN_COMMENT"
	TypePlanUpdate      = "PLAN_UPDATE"
	TypeMessage         = "MESSAGE"
)

// Actor identifies who triggered a notification.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	PortraitURL string    `json:"portrait_url,omitempty"`
}

func EventInvitePayload(inviteID, eventID uuid.UUID, eventName string, sender Actor) Payload {
	return Payload{Type: TypeEventInvite, Data: map[string]interface{}{
		"invite": inviteID, "event": eventID, "event_name": eventName, "sender": sender,
	}}
}

func EventCancelPayload(eventID uuid.UUID, eventName string) Payload {
	return Payload{Type: TypeEventCancel, Data: map[string]interface{}{
		"event": eventID, "event_name": eventName,
	}}
}

func EventUpdatePayload(eventID uuid.UUID, eventName string) Payload {
	return Payload{Type: TypeEventUpdate, Data: map[string]interface{}{
		"event": eventID, "event_name": eventName,
	}}
}

func CheckinReminderPayload(eventID uuid.UUID, eventName string) Payload {
	return Payload{Type: TypeCheckinReminder, Data: map[string]interface{}{
		"event": eventID, "event_name": eventName,
	}}
}

func EventCommentPayload(commentID, eventID uuid.UUID, eventName, message string, author Actor) Payload {
	return Payload{Type: TypeEventComment, Data: map[string]interface{}{
		"comment": commentID, "event": eventID, "event_name": eventName,
		"message": message, "author": author,
	}}
}

func PlanCommentPayload(commentID, planID uuid.UUID, text, message string, author Actor) Payload {
	return Payload{Type: TypePlanComment, Data: map[string]interface{}{
		"comment": commentID, "plan": planID, "text": text,
		"message": message, "author": author,
	}}
}

func PlanUpdatePayload(planID uuid.UUID, text string, owner Actor) Payload {
	return Payload{Type: TypePlanUpdate, Data: map[string]interface{}{
		"plan": planID, "text": text, "owner": owner,
	}}
}

func MessagePayload(messageID uuid.UUID, body string, sender Actor) Payload {
	return Payload{Type: TypeMessage, Data: map[string]interface{}{
		"message": messageID, "body": body, "sender": sender,
	}}
}

// LogDispatcher is the fallback when no broker is configured: payloads are
// logged and dropped.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Notify(ctx context.Context, users []uuid.UUID, payload Payload) error {
	logrus.WithFields(logrus.Fields{
		"type":  payload.Type,
		"users": len(users),
	}).Debug("notification dropped: no dispatcher configured")
	return nil
}
