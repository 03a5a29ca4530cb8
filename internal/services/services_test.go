package services

import (
	"context"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/notify"
	"github.com/google/uuid"
)

// recordingDispatcher captures notifications instead of delivering them.
type recordingDispatcher struct {
	sent []sentNotification
}

type sentNotification struct {
	users   []uuid.UUID
	payload notify.Payload
}

func (d *recordingDispatcher) Notify(ctx context.Context, users []uuid.UUID, payload notify.Payload) error {
	d.sent = append(d.sent, sentNotification{users: users, payload: payload})
	return nil
}

func (d *recordingDispatcher) ofType(notificationType string) []sentNotification {
	var matching []sentNotification
	for _, note := range d.sent {
		if note.payload.Type == notificationType {
			matching = append(matching, note)
		}
	}
	return matching
}

func testSettings() config.Settings {
	return config.Settings{
		MinMembers:        2,
		MaxMembers:        2147483647,
		CheckinDistance:   200.0,
		CheckinPeriod:     4 * time.Hour,
		CheckinLeadTime:   30 * time.Minute,
		MinStartLeadTime:  30 * time.Minute,
		NearbyRadiusMiles: 50.0,
		AvailableLookback: 4 * time.Hour,
	}
}

// fixture bundles the fakes and services most tests need.
type fixture struct {
	stores     *memStores
	dispatcher *recordingDispatcher
	membership *MembershipService
	events     *EventService
	plans      *PlanService
	discovery  *DiscoveryService
	friends    *FriendService
	messages   *MessageService
	search     *SearchService
	users      *UserService
}

func newFixture() *fixture {
	stores := newMemStores()
	dispatcher := &recordingDispatcher{}
	settings := testSettings()

	eventStore := memEvents{stores}
	memberStore := memMembers{stores}
	inviteStore := memInvites{stores}
	friendStore := memFriends{stores}
	planStore := memPlans{stores}
	userStore := memUsers{stores}
	commentStore := memComments{stores}
	messageStore := memMessages{stores}
	searchStore := memSearch{stores}
	tagStore := memTags{stores}

	tagService := NewTagService(tagStore)
	converter := staticConverter{}

	return &fixture{
		stores:     stores,
		dispatcher: dispatcher,
		membership: NewMembershipService(settings, eventStore, memberStore, inviteStore, friendStore, userStore, dispatcher),
		events:     NewEventService(settings, eventStore, memberStore, userStore, commentStore, tagService, converter, dispatcher),
		plans:      NewPlanService(planStore, userStore, commentStore, tagService, dispatcher),
		discovery:  NewDiscoveryService(settings, eventStore, planStore, friendStore, userStore),
		friends:    NewFriendService(friendStore, memberStore, eventStore, userStore),
		messages:   NewMessageService(messageStore, userStore, dispatcher),
		search:     NewSearchService(searchStore, eventStore, planStore, userStore),
		users:      NewUserService(userStore, tagService),
	}
}

// staticConverter treats every currency as 1:1 with USD.
type staticConverter struct{}

func (staticConverter) ToUSD(ctx context.Context, code string, amount float64) (float64, error) {
	return amount, nil
}

// addEvent creates an event owned by owner, starting at start, at the given
// coordinates, with an OPEN policy unless overridden by mutate.
func (f *fixture) addEvent(owner *models.User, start time.Time, lat, lon float64, mutate func(*models.Event)) *models.Event {
	ownerID := owner.ID
	event := &models.Event{
		Name:       "Event",
		OwnerID:    &ownerID,
		StartDate:  start,
		JoinPolicy: models.JoinPolicyOpen,
		MaxMembers: 2147483647,
		Location:   models.Location{Latitude: lat, Longitude: lon},
	}
	if mutate != nil {
		mutate(event)
	}
	if err := (memEvents{f.stores}).Create(event); err != nil {
		panic(err)
	}
	return event
}

func (f *fixture) memberOf(eventID, userID uuid.UUID) *models.EventMember {
	member, err := (memMembers{f.stores}).Get(eventID, userID)
	if err != nil {
		return nil
	}
	return member
}
