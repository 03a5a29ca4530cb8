package services

import (
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/repository"
	"github.com/google/uuid"
)

// Store interfaces mirror the repository query methods the services consume,
// so the state machine and discovery engine are testable against in-memory
// implementations.

type EventStore interface {
	Create(event *models.Event) error
	ByID(id uuid.UUID) (*models.Event, error)
	Save(event *models.Event) error
	Delete(event *models.Event) error
	Available(now time.Time, lookback time.Duration) ([]models.Event, error)
	AvailableAttendedBy(userID uuid.UUID, now time.Time, lookback time.Duration) ([]models.Event, error)
	AvailableOwnedByAny(owners []uuid.UUID, now time.Time, lookback time.Duration) ([]models.Event, error)
	AvailableWithinBox(now time.Time, lookback time.Duration, minLat, maxLat, minLon, maxLon float64) ([]models.Event, error)
	AttendedBefore(userID uuid.UUID, now time.Time) ([]models.Event, error)
	EndedUnprocessed(now time.Time, checkinPeriod time.Duration) ([]models.Event, error)
	StartingSoonUnnotified(before time.Time) ([]models.Event, error)
	MemberCount(eventID uuid.UUID) (int64, error)
	AcceptedCount(eventID uuid.UUID) (int64, error)
	All() ([]models.Event, error)
	ImportExists(source, sourceID string) (bool, error)
	CreateImport(imp *models.EventImport) error
}

type MemberStore interface {
	Get(eventID, userID uuid.UUID) (*models.EventMember, error)
	ByID(id uuid.UUID) (*models.EventMember, error)
	Create(member *models.EventMember) error
	GetOrCreate(member *models.EventMember) (bool, *models.EventMember, error)
	Save(member *models.EventMember) error
	Delete(member *models.EventMember) error
	CheckedIn(eventID uuid.UUID) ([]models.EventMember, error)
	OfEvent(eventID uuid.UUID, status string) ([]models.EventMember, error)
	UserIDsOfEvent(eventID uuid.UUID) ([]uuid.UUID, error)
}

type InviteStore interface {
	Create(invite *models.EventInvite) error
	Save(invite *models.EventInvite) error
}

type FriendStore interface {
	Get(ownerID, userID uuid.UUID) (*models.Friend, error)
	ByID(id uuid.UUID) (*models.Friend, error)
	GetOrCreate(edge *models.Friend) (bool, *models.Friend, error)
	Save(friend *models.Friend) error
	Of(ownerID uuid.UUID, order string, excludeUsers []uuid.UUID) ([]models.Friend, error)
	CloseUserIDs(ownerID uuid.UUID) ([]uuid.UUID, error)
	CloseUserIDsOfAny(owners []uuid.UUID) ([]uuid.UUID, error)
	ConnectedUserIDs(ownerID uuid.UUID) ([]uuid.UUID, error)
}

type PlanStore interface {
	Create(plan *models.Plan) error
	ByID(id uuid.UUID) (*models.Plan, error)
	Save(plan *models.Plan) error
	Delete(plan *models.Plan) error
	Newest() ([]models.Plan, error)
	OwnedByAny(owners []uuid.UUID) ([]models.Plan, error)
	NewestWithinBox(minLat, maxLat, minLon, maxLon float64) ([]models.Plan, error)
	OwnedOrCommentedBy(userID uuid.UUID) ([]models.Plan, error)
	All() ([]models.Plan, error)
}

type UserStore interface {
	Create(user *models.User) error
	ByID(id uuid.UUID) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	ByIDs(ids []uuid.UUID) ([]models.User, error)
	ByEmails(emails []string, excludeOwner uuid.UUID) ([]models.User, error)
	SettingsOf(userID uuid.UUID) (*models.UserSettings, error)
	SaveSettings(settings *models.UserSettings) error
	ProfileOf(userID uuid.UUID) (*models.Profile, error)
	SaveProfile(profile *models.Profile) error
	DisplayNameTaken(name string) (bool, error)
	InterestNames(userID uuid.UUID) ([]string, error)
	AllProfiles() ([]models.Profile, error)
}

type CommentStore interface {
	Create(comment *models.Comment) error
	OfEvent(eventID uuid.UUID) ([]models.Comment, error)
	OfPlan(planID uuid.UUID) ([]models.Comment, error)
	CommenterIDs(planID uuid.UUID) ([]uuid.UUID, error)
}

type MessageStore interface {
	Create(message *models.Message) error
	Save(message *models.Message) error
	ByID(id uuid.UUID) (*models.Message, error)
	Thread(currentUser, otherUser uuid.UUID) ([]models.Message, error)
	Inbox(userID uuid.UUID) ([]models.Message, error)
	DeleteDrafts(senderID, receiverID uuid.UUID) error
	MarkOpened(currentUser, otherUser uuid.UUID, at time.Time) error
}

type RateStore interface {
	Pair(source, target string) (*models.CurrencyRate, error)
	Save(rate *models.CurrencyRate) error
}

type SearchStore interface {
	Replace(kind string, docs []models.SearchDocument) error
	Query(q repository.SearchQuery) ([]models.SearchDocument, error)
}

type TagStore interface {
	GetOrCreate(names []string) ([]models.HashTag, error)
	ReplaceFor(model interface{}, tags []models.HashTag) error
}
