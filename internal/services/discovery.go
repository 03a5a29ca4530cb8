package services

import (
	"sort"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
)

const (
	CategoryAttending   = "ATTENDING"
	CategoryFriends     = "FRIENDS"
	CategoryNearby      = "NEARBY"
	CategoryRecommended = "RECOMMENDED"
	CategoryNewest      = "NEWEST"
)

// DiscoveryService assembles the browse feeds. Every category works from the
// available-events window: events whose check-in period has not passed and
// which were not canceled.
type DiscoveryService struct {
	settings config.Settings
	events   EventStore
	plans    PlanStore
	friends  FriendStore
	users    UserStore
}

func NewDiscoveryService(settings config.Settings, events EventStore,
	plans PlanStore, friends FriendStore, users UserStore) *DiscoveryService {
	return &DiscoveryService{
		settings: settings,
		events:   events,
		plans:    plans,
		friends:  friends,
		users:    users,
	}
}

// Events returns one category of the event feed. NEARBY and RECOMMENDED need
// the viewer's position; the other categories ignore it. No category means
// the full available pool.
func (s *DiscoveryService) Events(userID uuid.UUID, category string, position *geo.Point) ([]models.Event, error) {
	now := time.Now().UTC()
	switch category {
	case "":
		return s.events.Available(now, s.settings.AvailableLookback)
	case CategoryAttending:
		return s.events.AvailableAttendedBy(userID, now, s.settings.AvailableLookback)
	case CategoryFriends:
		owners, err := s.closeCircle(userID)
		if err != nil {
			return nil, err
		}
		if len(owners) == 0 {
			return nil, nil
		}
		return s.events.AvailableOwnedByAny(owners, now, s.settings.AvailableLookback)
	case CategoryNearby:
		if position == nil {
			return nil, models.ErrInvalidCoordinate
		}
		return s.nearbyEvents(*position, now)
	case CategoryRecommended:
		if position == nil {
			return nil, models.ErrInvalidCoordinate
		}
		return s.recommendedEvents(userID, *position, now)
	}
	return nil, models.ErrNotFound
}

// closeCircle is the two-hop friend set: close friends plus their close
// friends, deduplicated.
func (s *DiscoveryService) closeCircle(userID uuid.UUID) ([]uuid.UUID, error) {
	direct, err := s.friends.CloseUserIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(direct) == 0 {
		return nil, nil
	}
	extended, err := s.friends.CloseUserIDsOfAny(direct)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(direct)+len(extended))
	circle := make([]uuid.UUID, 0, len(direct)+len(extended))
	for _, id := range append(direct, extended...) {
		if !seen[id] {
			seen[id] = true
			circle = append(circle, id)
		}
	}
	return circle, nil
}

// nearbyEvents runs the cheap bounding-box query first, then keeps only
// events within the exact radius. The pool's start-date ordering is
// preserved.
func (s *DiscoveryService) nearbyEvents(position geo.Point, now time.Time) ([]models.Event, error) {
	radius := geo.MilesToMeters(s.settings.NearbyRadiusMiles)
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(position, radius)

	candidates, err := s.events.AvailableWithinBox(now, s.settings.AvailableLookback,
		minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}

	var events []models.Event
	for _, event := range candidates {
		if geo.Within(event.Location.Point(), position, radius) {
			events = append(events, event)
		}
	}
	return events, nil
}

// recommendedEvents narrows the nearby pool to events sharing a hash-tag with
// the viewer's interests. An empty intersection falls back to the whole
// nearby pool, so the feed is never blank for a user without interests.
func (s *DiscoveryService) recommendedEvents(userID uuid.UUID, position geo.Point, now time.Time) ([]models.Event, error) {
	pool, err := s.nearbyEvents(position, now)
	if err != nil {
		return nil, err
	}

	interestSet, err := s.interestSet(userID)
	if err != nil {
		return nil, err
	}

	var matched []models.Event
	for _, event := range pool {
		for _, tag := range event.HashTags {
			if interestSet[tag.Name] {
				matched = append(matched, event)
				break
			}
		}
	}
	if len(matched) == 0 {
		return pool, nil
	}
	return matched, nil
}

func (s *DiscoveryService) interestSet(userID uuid.UUID) (map[string]bool, error) {
	interests, err := s.users.InterestNames(userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(interests))
	for _, name := range interests {
		set[name] = true
	}
	return set, nil
}

// Plans returns one category of the plan feed. FRIENDS uses the same two-hop
// close circle as the event feed.
func (s *DiscoveryService) Plans(userID uuid.UUID, category string, position *geo.Point) ([]models.Plan, error) {
	switch category {
	case CategoryFriends:
		owners, err := s.closeCircle(userID)
		if err != nil {
			return nil, err
		}
		if len(owners) == 0 {
			return nil, nil
		}
		return s.plans.OwnedByAny(owners)
	case CategoryNewest:
		return s.plans.Newest()
	case CategoryRecommended:
		if position == nil {
			return nil, models.ErrInvalidCoordinate
		}
		return s.recommendedPlans(userID, *position)
	}
	return nil, models.ErrNotFound
}

// recommendedPlans mirrors recommendedEvents: the nearby pool narrowed to
// plans sharing an interest tag, falling back to the whole pool when nothing
// matches. The pool keeps its newest-first ordering.
func (s *DiscoveryService) recommendedPlans(userID uuid.UUID, position geo.Point) ([]models.Plan, error) {
	radius := geo.MilesToMeters(s.settings.NearbyRadiusMiles)
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(position, radius)

	candidates, err := s.plans.NewestWithinBox(minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}
	var pool []models.Plan
	for _, plan := range candidates {
		if geo.Within(plan.Location.Point(), position, radius) {
			pool = append(pool, plan)
		}
	}

	interestSet, err := s.interestSet(userID)
	if err != nil {
		return nil, err
	}

	var matched []models.Plan
	for _, plan := range pool {
		for _, tag := range plan.HashTags {
			if interestSet[tag.Name] {
				matched = append(matched, plan)
				break
			}
		}
	}
	if len(matched) == 0 {
		return pool, nil
	}
	return matched, nil
}

// HistoryEntry is one item of the merged personal history feed.
type HistoryEntry struct {
	When  time.Time     `json:"when"`
	Event *models.Event `json:"event,omitempty"`
	Plan  *models.Plan  `json:"plan,omitempty"`
}

// History merges past attended events with plans the user owned or joined
// the conversation of, most recent first. Events order by start date, plans
// by creation date.
func (s *DiscoveryService) History(userID uuid.UUID) ([]HistoryEntry, error) {
	now := time.Now().UTC()
	events, err := s.events.AttendedBefore(userID, now)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.OwnedOrCommentedBy(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(events)+len(plans))
	for i := range events {
		entries = append(entries, HistoryEntry{When: events[i].StartDate, Event: &events[i]})
	}
	for i := range plans {
		entries = append(entries, HistoryEntry{When: plans[i].CreatedAt, Plan: &plans[i]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].When.After(entries[j].When)
	})
	return entries, nil
}
