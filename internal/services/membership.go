package services

import (
	"context"
	"errors"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/notify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MembershipService is the state machine for the EventMember and EventInvite
// lifecycles: NONE -> REQUESTED|INVITED -> ACCEPTED|DECLINED, with ACCEPTED
// able to carry a checked-in timestamp. Every transition validates against
// the event, mutates the row, then emits a best-effort notification.
type MembershipService struct {
	settings   config.Settings
	events     EventStore
	members    MemberStore
	invites    InviteStore
	friends    FriendStore
	users      UserStore
	dispatcher notify.Dispatcher
}

func NewMembershipService(settings config.Settings, events EventStore, members MemberStore,
	invites InviteStore, friends FriendStore, users UserStore, dispatcher notify.Dispatcher) *MembershipService {
	return &MembershipService{
		settings:   settings,
		events:     events,
		members:    members,
		invites:    invites,
		friends:    friends,
		users:      users,
		dispatcher: dispatcher,
	}
}

// Join adds the user to the event according to its join policy. OPEN events
// accept immediately; FRIENDS_ONLY events require a close-friend edge from
// the owner to the user; every other policy leaves the row REQUESTED pending
// owner action. The (event, user) unique constraint makes concurrent joins
// produce exactly one row.
func (s *MembershipService) Join(ctx context.Context, eventID, userID uuid.UUID) (*models.EventMember, error) {
	event, err := s.events.ByID(eventID)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.Get(eventID, userID); err == nil {
		return nil, models.ErrAlreadyMember
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	status := models.MemberRequested
	switch event.JoinPolicy {
	case models.JoinPolicyOpen:
		status = models.MemberAccepted
	case models.JoinPolicyFriendsOnly:
		if event.OwnerID == nil {
			return nil, models.ErrForbidden
		}
		friend, err := s.friends.Get(*event.OwnerID, userID)
		if err != nil || !friend.Close {
			return nil, models.ErrForbidden
		}
		status = models.MemberAccepted
	}

	if status == models.MemberAccepted && event.MaxMembers > 0 {
		accepted, err := s.events.AcceptedCount(eventID)
		if err != nil {
			return nil, err
		}
		if accepted >= int64(event.MaxMembers) {
			return nil, models.ErrEventFull
		}
	}

	member := &models.EventMember{
		EventID:     eventID,
		UserID:      userID,
		Status:      status,
		ViewedEvent: time.Now().UTC(),
	}
	if err := s.members.Create(member); err != nil {
		return nil, err
	}
	return member, nil
}

// Leave removes the membership row entirely.
func (s *MembershipService) Leave(ctx context.Context, eventID, userID uuid.UUID) error {
	member, err := s.members.Get(eventID, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrNotMember
	}
	if err != nil {
		return err
	}
	return s.members.Delete(member)
}

// Invite creates INVITED membership rows plus linked invites for each target
// not already a member. Unknown user ids are skipped silently; the return
// value is the number of invites actually sent.
func (s *MembershipService) Invite(ctx context.Context, eventID, inviterID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	event, err := s.events.ByID(eventID)
	if err != nil {
		return 0, err
	}

	isOwner := event.OwnerID != nil && *event.OwnerID == inviterID
	if !isOwner {
		if event.JoinPolicy != models.JoinPolicyOpen && event.JoinPolicy != models.JoinPolicyInviteOnly {
			return 0, models.ErrForbidden
		}
		if _, err := s.members.Get(eventID, inviterID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return 0, models.ErrForbidden
			}
			return 0, err
		}
	}

	targets, err := s.users.ByIDs(userIDs)
	if err != nil {
		return 0, err
	}

	inviter, err := s.users.ByID(inviterID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, target := range targets {
		member := &models.EventMember{
			EventID:     eventID,
			UserID:      target.ID,
			Status:      models.MemberInvited,
			ViewedEvent: time.Now().UTC(),
		}
		created, member, err := s.members.GetOrCreate(member)
		if err != nil {
			return count, err
		}
		if !created {
			// Already a member in some state; not counted, not an error.
			continue
		}

		invite := &models.EventInvite{
			EventID:    eventID,
			SenderID:   inviterID,
			ReceiverID: target.ID,
			Sent:       time.Now().UTC(),
		}
		if err := s.invites.Create(invite); err != nil {
			return count, err
		}
		member.InviteID = &invite.ID
		if err := s.members.Save(member); err != nil {
			return count, err
		}
		count++

		s.notify(ctx, []uuid.UUID{target.ID},
			notify.EventInvitePayload(invite.ID, event.ID, event.Name, actorOf(inviter)))
	}
	return count, nil
}

// RespondToInvite records the receiver's answer. A decline keeps the row as
// DECLINED; this is deliberately different from Approve's reject path.
func (s *MembershipService) RespondToInvite(ctx context.Context, memberID, userID uuid.UUID, accept bool) (*models.EventMember, error) {
	member, err := s.members.ByID(memberID)
	if err != nil {
		return nil, err
	}
	if member.UserID != userID {
		return nil, models.ErrForbidden
	}
	// Only an INVITED member has something to respond to. A REQUESTED row
	// must go through the owner's approval, never through this path.
	if member.Status != models.MemberInvited {
		return nil, models.ErrForbidden
	}

	event, err := s.events.ByID(member.EventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != nil && *event.OwnerID == member.UserID {
		return nil, models.ErrMemberIsOwner
	}

	if member.Invite != nil {
		now := time.Now().UTC()
		member.Invite.Responded = &now
		member.Invite.Accepted = accept
		if err := s.invites.Save(member.Invite); err != nil {
			return nil, err
		}
	}

	if accept {
		member.Status = models.MemberAccepted
	} else {
		member.Status = models.MemberDeclined
	}
	if err := s.members.Save(member); err != nil {
		return nil, err
	}
	return member, nil
}

// Approve is the owner's answer to a REQUESTED member. Accepting promotes
// the row; rejecting deletes it entirely, so the requester may ask again.
func (s *MembershipService) Approve(ctx context.Context, memberID, ownerID uuid.UUID, accept bool) (*models.EventMember, error) {
	member, err := s.members.ByID(memberID)
	if err != nil {
		return nil, err
	}

	event, err := s.events.ByID(member.EventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID == nil || *event.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}
	if *event.OwnerID == member.UserID {
		return nil, models.ErrMemberIsOwner
	}

	if !accept {
		if err := s.members.Delete(member); err != nil {
			return nil, err
		}
		return nil, nil
	}

	member.Status = models.MemberAccepted
	if err := s.members.Save(member); err != nil {
		return nil, err
	}
	return member, nil
}

// CheckIn proves presence: the member must not have checked in before, the
// clock must be inside [start-lead, end-or-start+period], and the reported
// point must be within the configured distance of the event location using
// projected meters.
func (s *MembershipService) CheckIn(ctx context.Context, eventID, userID uuid.UUID, lat, lon float64) (*models.EventMember, error) {
	point, err := geo.NewPoint(lat, lon)
	if err != nil {
		return nil, err
	}

	event, err := s.events.ByID(eventID)
	if err != nil {
		return nil, err
	}

	member, err := s.members.Get(eventID, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotMember
	}
	if err != nil {
		return nil, err
	}

	if member.CheckedIn != nil {
		return nil, models.ErrAlreadyCheckedIn
	}

	now := time.Now().UTC()
	checkinStart := event.StartDate.Add(-s.settings.CheckinLeadTime)
	checkinEnd := event.CheckinEnd(s.settings.CheckinPeriod)
	if now.Before(checkinStart) {
		return nil, models.ErrTooEarly
	}
	if now.After(checkinEnd) {
		return nil, models.ErrTooLate
	}

	if !geo.Within(point, event.Location.Point(), s.settings.CheckinDistance) {
		return nil, models.ErrTooFar
	}

	member.CheckedIn = &now
	if err := s.members.Save(member); err != nil {
		return nil, err
	}
	return member, nil
}

// Cancel ends an event before it happens. With fewer than MinMembers
// members the row is deleted outright; otherwise it is soft-canceled and
// every member except the owner is notified.
func (s *MembershipService) Cancel(ctx context.Context, eventID, ownerID uuid.UUID) (deleted bool, err error) {
	event, err := s.events.ByID(eventID)
	if err != nil {
		return false, err
	}
	if event.OwnerID == nil || *event.OwnerID != ownerID {
		return false, models.ErrForbidden
	}

	now := time.Now().UTC()
	if now.After(event.CheckinEnd(s.settings.CheckinPeriod)) {
		return false, models.ErrTooLateToCancel
	}

	count, err := s.events.MemberCount(eventID)
	if err != nil {
		return false, err
	}
	if count < int64(s.settings.MinMembers) {
		return true, s.events.Delete(event)
	}

	event.Canceled = &now
	if err := s.events.Save(event); err != nil {
		return false, err
	}

	users, err := s.members.UserIDsOfEvent(eventID)
	if err != nil {
		logrus.WithField("event", eventID).Errorf("failed to load members for cancel fan-out: %v", err)
		return false, nil
	}
	s.notify(ctx, withoutUser(users, ownerID), notify.EventCancelPayload(event.ID, event.Name))
	return false, nil
}

// TouchViewed updates the member's last-viewed timestamp when they open the
// event. Non-members are a no-op.
func (s *MembershipService) TouchViewed(eventID, userID uuid.UUID) {
	member, err := s.members.Get(eventID, userID)
	if err != nil {
		return
	}
	member.ViewedEvent = time.Now().UTC()
	if err := s.members.Save(member); err != nil {
		logrus.WithField("event", eventID).Warnf("failed to update viewed_event: %v", err)
	}
}

// Members lists event members, optionally narrowed by status, with the
// caller's close friends first, then acquaintances, then everyone else.
func (s *MembershipService) Members(eventID, viewerID uuid.UUID, status string) ([]models.EventMember, error) {
	members, err := s.members.OfEvent(eventID, status)
	if err != nil {
		return nil, err
	}

	edges, err := s.friends.Of(viewerID, "", nil)
	if err != nil {
		return nil, err
	}
	closeSet := make(map[uuid.UUID]bool)
	knownSet := make(map[uuid.UUID]bool)
	for _, edge := range edges {
		knownSet[edge.UserID] = true
		if edge.Close {
			closeSet[edge.UserID] = true
		}
	}

	var closest, acquaintances, others []models.EventMember
	for _, member := range members {
		switch {
		case closeSet[member.UserID]:
			closest = append(closest, member)
		case knownSet[member.UserID]:
			acquaintances = append(acquaintances, member)
		default:
			others = append(others, member)
		}
	}
	result := append(closest, acquaintances...)
	return append(result, others...), nil
}

func (s *MembershipService) notify(ctx context.Context, users []uuid.UUID, payload notify.Payload) {
	if err := s.dispatcher.Notify(ctx, users, payload); err != nil {
		logrus.WithField("type", payload.Type).Errorf("notification dispatch failed: %v", err)
	}
}

func withoutUser(users []uuid.UUID, exclude uuid.UUID) []uuid.UUID {
	result := users[:0]
	for _, id := range users {
		if id != exclude {
			result = append(result, id)
		}
	}
	return result
}

func actorOf(user *models.User) notify.Actor {
	actor := notify.Actor{ID: user.ID}
	if user.Profile != nil {
		actor.DisplayName = user.Profile.DisplayName
		actor.PortraitURL = user.Profile.PortraitURL
	}
	return actor
}
