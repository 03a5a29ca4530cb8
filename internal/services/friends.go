package services

import (
	"context"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FriendService maintains the directed friend graph. Edges are created by
// the post-event batch, by contact import, and never by an explicit "add
// friend" action; users curate the graph only by marking edges close.
type FriendService struct {
	friends FriendStore
	members MemberStore
	events  EventStore
	users   UserStore
}

func NewFriendService(friends FriendStore, members MemberStore, events EventStore, users UserStore) *FriendService {
	return &FriendService{friends: friends, members: members, events: events, users: users}
}

// AssignFriends creates pairwise edges between everyone who checked in to
// the event, honoring each edge owner's friend_members preference, then
// marks the event processed. An edge that already exists is left untouched
// so last_met keeps pointing at the first shared event.
func (s *FriendService) AssignFriends(ctx context.Context, event *models.Event) error {
	checkedIn, err := s.members.CheckedIn(event.ID)
	if err != nil {
		return err
	}

	optIn := make(map[uuid.UUID]bool, len(checkedIn))
	for _, member := range checkedIn {
		settings, err := s.users.SettingsOf(member.UserID)
		if err != nil {
			logrus.WithField("user", member.UserID).Warnf("settings lookup failed, skipping: %v", err)
			continue
		}
		optIn[member.UserID] = settings.FriendMembers
	}

	created := 0
	for _, a := range checkedIn {
		if !optIn[a.UserID] {
			continue
		}
		for _, b := range checkedIn {
			if a.UserID == b.UserID {
				continue
			}
			edge := &models.Friend{
				OwnerID:   a.UserID,
				UserID:    b.UserID,
				LastMetID: &event.ID,
			}
			isNew, _, err := s.friends.GetOrCreate(edge)
			if err != nil {
				return err
			}
			if isNew {
				created++
			}
		}
	}

	event.AddedFriends = true
	if err := s.events.Save(event); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"event":      event.ID,
		"checked_in": len(checkedIn),
		"new_edges":  created,
	}).Info("assigned friends for ended event")
	return nil
}

// List returns the owner's edges in the requested order. With excludeEvent
// set, friends who already belong to that event are hidden, which is what an
// invite picker wants.
func (s *FriendService) List(ownerID uuid.UUID, order string, excludeEvent *uuid.UUID) ([]models.Friend, error) {
	var exclude []uuid.UUID
	if excludeEvent != nil {
		var err error
		exclude, err = s.members.UserIDsOfEvent(*excludeEvent)
		if err != nil {
			return nil, err
		}
	}
	return s.friends.Of(ownerID, order, exclude)
}

// MarkClose flips the close flag on one of the owner's edges. Only the edge
// owner may change it; the reverse edge is unaffected.
func (s *FriendService) MarkClose(edgeID, ownerID uuid.UUID, close bool) (*models.Friend, error) {
	edge, err := s.friends.ByID(edgeID)
	if err != nil {
		return nil, err
	}
	if edge.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}
	edge.Close = close
	if err := s.friends.Save(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Mutual returns the user ids both sides are connected to through a close or
// imported edge, the two users themselves excluded.
func (s *FriendService) Mutual(userA, userB uuid.UUID) ([]uuid.UUID, error) {
	a, err := s.friends.ConnectedUserIDs(userA)
	if err != nil {
		return nil, err
	}
	b, err := s.friends.ConnectedUserIDs(userB)
	if err != nil {
		return nil, err
	}

	inA := make(map[uuid.UUID]bool, len(a))
	for _, id := range a {
		inA[id] = true
	}
	var mutual []uuid.UUID
	for _, id := range b {
		if inA[id] && id != userA && id != userB {
			mutual = append(mutual, id)
		}
	}
	return mutual, nil
}

// FindContacts matches address-book emails against registered users without
// creating any edges. The owner and existing friends are excluded.
func (s *FriendService) FindContacts(ownerID uuid.UUID, emails []string) ([]models.User, error) {
	return s.users.ByEmails(emails, ownerID)
}

// ImportContacts creates one-way imported edges toward every registered user
// matching the given emails. Re-importing is idempotent.
func (s *FriendService) ImportContacts(ownerID uuid.UUID, emails []string) (int, error) {
	matches, err := s.users.ByEmails(emails, ownerID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, user := range matches {
		edge := &models.Friend{
			OwnerID:  ownerID,
			UserID:   user.ID,
			Imported: true,
		}
		isNew, _, err := s.friends.GetOrCreate(edge)
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}
	return created, nil
}
