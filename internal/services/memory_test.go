package services

import (
	"sort"
	"strings"
	"time"

	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStores is a shared in-memory backing for the store fakes, mirroring the
// query semantics of the gorm repositories closely enough for the service
// tests.
type memStores struct {
	events   map[uuid.UUID]*models.Event
	members  map[uuid.UUID]*models.EventMember
	invites  map[uuid.UUID]*models.EventInvite
	friends  map[uuid.UUID]*models.Friend
	plans    map[uuid.UUID]*models.Plan
	users    map[uuid.UUID]*models.User
	comments map[uuid.UUID]*models.Comment
	messages map[uuid.UUID]*models.Message
	rates    map[string]*models.CurrencyRate
	docs     map[string][]models.SearchDocument
	tags     map[string]models.HashTag
	imports  map[string]bool
}

func newMemStores() *memStores {
	return &memStores{
		events:   make(map[uuid.UUID]*models.Event),
		members:  make(map[uuid.UUID]*models.EventMember),
		invites:  make(map[uuid.UUID]*models.EventInvite),
		friends:  make(map[uuid.UUID]*models.Friend),
		plans:    make(map[uuid.UUID]*models.Plan),
		users:    make(map[uuid.UUID]*models.User),
		comments: make(map[uuid.UUID]*models.Comment),
		messages: make(map[uuid.UUID]*models.Message),
		rates:    make(map[string]*models.CurrencyRate),
		docs:     make(map[string][]models.SearchDocument),
		tags:     make(map[string]models.HashTag),
		imports:  make(map[string]bool),
	}
}

func (m *memStores) addUser(displayName string) *models.User {
	user := &models.User{
		ID:       uuid.New(),
		Email:    strings.ToLower(displayName) + "@example.com",
		Password: "hashed",
		Profile:  &models.Profile{ID: uuid.New(), DisplayName: displayName},
		Settings: &models.UserSettings{Notifications: true, FriendMembers: true},
	}
	user.Profile.UserID = user.ID
	user.Settings.UserID = user.ID
	m.users[user.ID] = user
	return user
}

// --- EventStore ---

type memEvents struct{ *memStores }

func (m memEvents) Create(event *models.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Location.ID == uuid.Nil {
		event.Location.ID = uuid.New()
	}
	m.events[event.ID] = event
	if event.OwnerID != nil {
		member := &models.EventMember{
			ID:          uuid.New(),
			EventID:     event.ID,
			UserID:      *event.OwnerID,
			Status:      models.MemberAccepted,
			ViewedEvent: time.Now().UTC(),
		}
		m.members[member.ID] = member
	}
	return nil
}

func (m memEvents) ByID(id uuid.UUID) (*models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return event, nil
}

func (m memEvents) Save(event *models.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m memEvents) Delete(event *models.Event) error {
	delete(m.events, event.ID)
	for id, member := range m.members {
		if member.EventID == event.ID {
			delete(m.members, id)
		}
	}
	return nil
}

func (m memEvents) availableList(now time.Time, lookback time.Duration) []models.Event {
	var events []models.Event
	for _, event := range m.events {
		if !event.StartDate.After(now.Add(-lookback)) {
			continue
		}
		if event.EndDate != nil && event.EndDate.Before(now) {
			continue
		}
		if event.Canceled != nil {
			continue
		}
		events = append(events, *event)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartDate.Equal(events[j].StartDate) {
			return events[i].StartDate.Before(events[j].StartDate)
		}
		return events[i].ID.String() < events[j].ID.String()
	})
	return events
}

func (m memEvents) Available(now time.Time, lookback time.Duration) ([]models.Event, error) {
	return m.availableList(now, lookback), nil
}

func (m memEvents) AvailableAttendedBy(userID uuid.UUID, now time.Time, lookback time.Duration) ([]models.Event, error) {
	var events []models.Event
	for _, event := range m.availableList(now, lookback) {
		for _, member := range m.members {
			if member.EventID == event.ID && member.UserID == userID &&
				member.Status != models.MemberDeclined {
				events = append(events, event)
				break
			}
		}
	}
	return events, nil
}

func (m memEvents) AvailableOwnedByAny(owners []uuid.UUID, now time.Time, lookback time.Duration) ([]models.Event, error) {
	ownerSet := make(map[uuid.UUID]bool)
	for _, id := range owners {
		ownerSet[id] = true
	}
	var events []models.Event
	for _, event := range m.availableList(now, lookback) {
		if event.OwnerID != nil && ownerSet[*event.OwnerID] {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m memEvents) AvailableWithinBox(now time.Time, lookback time.Duration, minLat, maxLat, minLon, maxLon float64) ([]models.Event, error) {
	var events []models.Event
	for _, event := range m.availableList(now, lookback) {
		lat, lon := event.Location.Latitude, event.Location.Longitude
		if lat >= minLat && lat <= maxLat && lon >= minLon && lon <= maxLon {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m memEvents) AttendedBefore(userID uuid.UUID, now time.Time) ([]models.Event, error) {
	var events []models.Event
	for _, event := range m.events {
		if !event.StartDate.Before(now) {
			continue
		}
		for _, member := range m.members {
			if member.EventID == event.ID && member.UserID == userID &&
				member.Status == models.MemberAccepted {
				events = append(events, *event)
				break
			}
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.After(events[j].StartDate)
	})
	return events, nil
}

func (m memEvents) EndedUnprocessed(now time.Time, checkinPeriod time.Duration) ([]models.Event, error) {
	var events []models.Event
	for _, event := range m.events {
		if event.AddedFriends {
			continue
		}
		ended := (event.EndDate != nil && event.EndDate.Before(now)) ||
			(event.EndDate == nil && event.StartDate.Before(now.Add(-checkinPeriod)))
		if ended {
			events = append(events, *event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.After(events[j].StartDate)
	})
	return events, nil
}

func (m memEvents) StartingSoonUnnotified(before time.Time) ([]models.Event, error) {
	var events []models.Event
	for _, event := range m.events {
		if !event.NotifiedStart && event.Canceled == nil && event.StartDate.Before(before) {
			events = append(events, *event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events, nil
}

func (m memEvents) MemberCount(eventID uuid.UUID) (int64, error) {
	var count int64
	for _, member := range m.members {
		if member.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (m memEvents) AcceptedCount(eventID uuid.UUID) (int64, error) {
	var count int64
	for _, member := range m.members {
		if member.EventID == eventID && member.Status == models.MemberAccepted {
			count++
		}
	}
	return count, nil
}

func (m memEvents) All() ([]models.Event, error) {
	var events []models.Event
	for _, event := range m.events {
		events = append(events, *event)
	}
	return events, nil
}

func (m memEvents) ImportExists(source, sourceID string) (bool, error) {
	return m.imports[source+"|"+sourceID], nil
}

func (m memEvents) CreateImport(imp *models.EventImport) error {
	m.imports[imp.Source+"|"+imp.SourceID] = true
	return nil
}

// --- MemberStore ---

type memMembers struct{ *memStores }

func (m memMembers) Get(eventID, userID uuid.UUID) (*models.EventMember, error) {
	for _, member := range m.members {
		if member.EventID == eventID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memMembers) ByID(id uuid.UUID) (*models.EventMember, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if member.InviteID != nil {
		member.Invite = m.invites[*member.InviteID]
	}
	return member, nil
}

func (m memMembers) Create(member *models.EventMember) error {
	if _, err := m.Get(member.EventID, member.UserID); err == nil {
		return models.ErrAlreadyMember
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	m.members[member.ID] = member
	return nil
}

func (m memMembers) GetOrCreate(member *models.EventMember) (bool, *models.EventMember, error) {
	if existing, err := m.Get(member.EventID, member.UserID); err == nil {
		return false, existing, nil
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	m.members[member.ID] = member
	return true, member, nil
}

func (m memMembers) Save(member *models.EventMember) error {
	m.members[member.ID] = member
	return nil
}

func (m memMembers) Delete(member *models.EventMember) error {
	delete(m.members, member.ID)
	return nil
}

func (m memMembers) CheckedIn(eventID uuid.UUID) ([]models.EventMember, error) {
	var members []models.EventMember
	for _, member := range m.members {
		if member.EventID == eventID && member.CheckedIn != nil {
			members = append(members, *member)
		}
	}
	return members, nil
}

func (m memMembers) OfEvent(eventID uuid.UUID, status string) ([]models.EventMember, error) {
	var members []models.EventMember
	for _, member := range m.members {
		if member.EventID == eventID && (status == "" || member.Status == status) {
			members = append(members, *member)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].ID.String() < members[j].ID.String()
	})
	return members, nil
}

func (m memMembers) UserIDsOfEvent(eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, member := range m.members {
		if member.EventID == eventID {
			ids = append(ids, member.UserID)
		}
	}
	return ids, nil
}

// --- InviteStore ---

type memInvites struct{ *memStores }

func (m memInvites) Create(invite *models.EventInvite) error {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	m.invites[invite.ID] = invite
	return nil
}

func (m memInvites) Save(invite *models.EventInvite) error {
	m.invites[invite.ID] = invite
	return nil
}

// --- FriendStore ---

type memFriends struct{ *memStores }

func (m memFriends) Get(ownerID, userID uuid.UUID) (*models.Friend, error) {
	for _, edge := range m.friends {
		if edge.OwnerID == ownerID && edge.UserID == userID {
			return edge, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memFriends) ByID(id uuid.UUID) (*models.Friend, error) {
	edge, ok := m.friends[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return edge, nil
}

func (m memFriends) GetOrCreate(edge *models.Friend) (bool, *models.Friend, error) {
	if existing, err := m.Get(edge.OwnerID, edge.UserID); err == nil {
		return false, existing, nil
	}
	if edge.ID == uuid.Nil {
		edge.ID = uuid.New()
	}
	m.friends[edge.ID] = edge
	return true, edge, nil
}

func (m memFriends) Save(friend *models.Friend) error {
	m.friends[friend.ID] = friend
	return nil
}

func (m memFriends) Of(ownerID uuid.UUID, order string, excludeUsers []uuid.UUID) ([]models.Friend, error) {
	excluded := make(map[uuid.UUID]bool)
	for _, id := range excludeUsers {
		excluded[id] = true
	}
	var edges []models.Friend
	for _, edge := range m.friends {
		if edge.OwnerID == ownerID && !excluded[edge.UserID] {
			edges = append(edges, *edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].ID.String() < edges[j].ID.String()
	})
	return edges, nil
}

func (m memFriends) CloseUserIDs(ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, edge := range m.friends {
		if edge.OwnerID == ownerID && edge.Close {
			ids = append(ids, edge.UserID)
		}
	}
	return ids, nil
}

func (m memFriends) CloseUserIDsOfAny(owners []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, owner := range owners {
		ownerIDs, _ := m.CloseUserIDs(owner)
		for _, id := range ownerIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (m memFriends) ConnectedUserIDs(ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, edge := range m.friends {
		if edge.OwnerID == ownerID && (edge.Close || edge.Imported) {
			ids = append(ids, edge.UserID)
		}
	}
	return ids, nil
}

// --- PlanStore ---

type memPlans struct{ *memStores }

func (m memPlans) Create(plan *models.Plan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if plan.Location.ID == uuid.Nil {
		plan.Location.ID = uuid.New()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	m.plans[plan.ID] = plan
	return nil
}

func (m memPlans) ByID(id uuid.UUID) (*models.Plan, error) {
	plan, ok := m.plans[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return plan, nil
}

func (m memPlans) Save(plan *models.Plan) error {
	m.plans[plan.ID] = plan
	return nil
}

func (m memPlans) Delete(plan *models.Plan) error {
	delete(m.plans, plan.ID)
	return nil
}

func (m memPlans) newestList() []models.Plan {
	var plans []models.Plan
	for _, plan := range m.plans {
		plans = append(plans, *plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].ID.String() < plans[j].ID.String()
	})
	return plans
}

func (m memPlans) Newest() ([]models.Plan, error) {
	return m.newestList(), nil
}

func (m memPlans) OwnedByAny(owners []uuid.UUID) ([]models.Plan, error) {
	ownerSet := make(map[uuid.UUID]bool)
	for _, id := range owners {
		ownerSet[id] = true
	}
	var plans []models.Plan
	for _, plan := range m.newestList() {
		if ownerSet[plan.OwnerID] {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (m memPlans) NewestWithinBox(minLat, maxLat, minLon, maxLon float64) ([]models.Plan, error) {
	var plans []models.Plan
	for _, plan := range m.newestList() {
		lat, lon := plan.Location.Latitude, plan.Location.Longitude
		if lat >= minLat && lat <= maxLat && lon >= minLon && lon <= maxLon {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (m memPlans) OwnedOrCommentedBy(userID uuid.UUID) ([]models.Plan, error) {
	commented := make(map[uuid.UUID]bool)
	for _, comment := range m.comments {
		if comment.PlanID != nil && comment.OwnerID == userID {
			commented[*comment.PlanID] = true
		}
	}
	var plans []models.Plan
	for _, plan := range m.newestList() {
		if plan.OwnerID == userID || commented[plan.ID] {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (m memPlans) All() ([]models.Plan, error) {
	return m.newestList(), nil
}

// --- UserStore ---

type memUsers struct{ *memStores }

func (m memUsers) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Profile != nil {
		if user.Profile.ID == uuid.Nil {
			user.Profile.ID = uuid.New()
		}
		user.Profile.UserID = user.ID
	}
	if user.Settings != nil {
		user.Settings.UserID = user.ID
	}
	m.users[user.ID] = user
	return nil
}

func (m memUsers) ByID(id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func (m memUsers) ByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memUsers) ByIDs(ids []uuid.UUID) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (m memUsers) ByEmails(emails []string, excludeOwner uuid.UUID) ([]models.User, error) {
	wanted := make(map[string]bool)
	for _, email := range emails {
		wanted[strings.ToLower(email)] = true
	}
	existing := make(map[uuid.UUID]bool)
	for _, edge := range m.friends {
		if edge.OwnerID == excludeOwner {
			existing[edge.UserID] = true
		}
	}
	var users []models.User
	for _, user := range m.users {
		if user.ID == excludeOwner || existing[user.ID] {
			continue
		}
		if wanted[user.Email] {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (m memUsers) SettingsOf(userID uuid.UUID) (*models.UserSettings, error) {
	user, ok := m.users[userID]
	if !ok || user.Settings == nil {
		return nil, models.ErrNotFound
	}
	return user.Settings, nil
}

func (m memUsers) SaveSettings(settings *models.UserSettings) error {
	if user, ok := m.users[settings.UserID]; ok {
		user.Settings = settings
	}
	return nil
}

func (m memUsers) ProfileOf(userID uuid.UUID) (*models.Profile, error) {
	user, ok := m.users[userID]
	if !ok || user.Profile == nil {
		return nil, models.ErrNotFound
	}
	return user.Profile, nil
}

func (m memUsers) SaveProfile(profile *models.Profile) error {
	if user, ok := m.users[profile.UserID]; ok {
		user.Profile = profile
	}
	return nil
}

func (m memUsers) DisplayNameTaken(name string) (bool, error) {
	for _, user := range m.users {
		if user.Profile != nil && strings.EqualFold(user.Profile.DisplayName, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m memUsers) InterestNames(userID uuid.UUID) ([]string, error) {
	user, ok := m.users[userID]
	if !ok || user.Profile == nil {
		return nil, nil
	}
	var names []string
	for _, tag := range user.Profile.HashTags {
		names = append(names, tag.Name)
	}
	return names, nil
}

func (m memUsers) AllProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	for _, user := range m.users {
		if user.Profile != nil {
			profiles = append(profiles, *user.Profile)
		}
	}
	return profiles, nil
}

// --- CommentStore ---

type memComments struct{ *memStores }

func (m memComments) Create(comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	m.comments[comment.ID] = comment
	return nil
}

func (m memComments) ofRef(match func(*models.Comment) bool) []models.Comment {
	var comments []models.Comment
	for _, comment := range m.comments {
		if match(comment) {
			comments = append(comments, *comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments
}

func (m memComments) OfEvent(eventID uuid.UUID) ([]models.Comment, error) {
	return m.ofRef(func(c *models.Comment) bool {
		return c.EventID != nil && *c.EventID == eventID
	}), nil
}

func (m memComments) OfPlan(planID uuid.UUID) ([]models.Comment, error) {
	return m.ofRef(func(c *models.Comment) bool {
		return c.PlanID != nil && *c.PlanID == planID
	}), nil
}

func (m memComments) CommenterIDs(planID uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, comment := range m.comments {
		if comment.PlanID != nil && *comment.PlanID == planID && !seen[comment.OwnerID] {
			seen[comment.OwnerID] = true
			ids = append(ids, comment.OwnerID)
		}
	}
	return ids, nil
}

// --- MessageStore ---

type memMessages struct{ *memStores }

func (m memMessages) Create(message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	m.messages[message.ID] = message
	return nil
}

func (m memMessages) Save(message *models.Message) error {
	m.messages[message.ID] = message
	return nil
}

func (m memMessages) ByID(id uuid.UUID) (*models.Message, error) {
	message, ok := m.messages[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return message, nil
}

func (m memMessages) Thread(currentUser, otherUser uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	for _, msg := range m.messages {
		between := (msg.SenderID == currentUser && msg.ReceiverID == otherUser) ||
			(msg.SenderID == otherUser && msg.ReceiverID == currentUser)
		if !between {
			continue
		}
		if msg.SenderID == currentUser && msg.SenderDeleted {
			continue
		}
		if msg.ReceiverID == currentUser && msg.ReceiverDeleted {
			continue
		}
		// Other side's drafts stay hidden.
		if msg.Sent == nil && msg.SenderID != currentUser {
			continue
		}
		messages = append(messages, *msg)
	}
	sort.Slice(messages, func(i, j int) bool {
		ti, tj := messages[i].CreatedAt, messages[j].CreatedAt
		if messages[i].Sent != nil {
			ti = *messages[i].Sent
		}
		if messages[j].Sent != nil {
			tj = *messages[j].Sent
		}
		return ti.After(tj)
	})
	return messages, nil
}

func (m memMessages) Inbox(userID uuid.UUID) ([]models.Message, error) {
	latest := make(map[uuid.UUID]models.Message)
	for _, msg := range m.messages {
		if msg.Sent == nil {
			continue
		}
		var other uuid.UUID
		switch userID {
		case msg.SenderID:
			if msg.SenderDeleted {
				continue
			}
			other = msg.ReceiverID
		case msg.ReceiverID:
			if msg.ReceiverDeleted {
				continue
			}
			other = msg.SenderID
		default:
			continue
		}
		if current, ok := latest[other]; !ok || msg.Sent.After(*current.Sent) {
			latest[other] = *msg
		}
	}
	var messages []models.Message
	for _, msg := range latest {
		messages = append(messages, msg)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Sent.After(*messages[j].Sent)
	})
	return messages, nil
}

func (m memMessages) DeleteDrafts(senderID, receiverID uuid.UUID) error {
	for id, msg := range m.messages {
		if msg.SenderID == senderID && msg.ReceiverID == receiverID && msg.Sent == nil {
			delete(m.messages, id)
		}
	}
	return nil
}

func (m memMessages) MarkOpened(currentUser, otherUser uuid.UUID, at time.Time) error {
	for _, msg := range m.messages {
		if msg.SenderID == otherUser && msg.ReceiverID == currentUser &&
			msg.Sent != nil && msg.Opened == nil {
			opened := at
			msg.Opened = &opened
		}
	}
	return nil
}

// --- RateStore ---

type memRates struct{ *memStores }

func (m memRates) Pair(source, target string) (*models.CurrencyRate, error) {
	if rate, ok := m.rates[source+"|"+target]; ok {
		return rate, nil
	}
	if rate, ok := m.rates[target+"|"+source]; ok {
		return rate, nil
	}
	return nil, models.ErrNotFound
}

func (m memRates) Save(rate *models.CurrencyRate) error {
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	m.rates[rate.Source+"|"+rate.Target] = rate
	return nil
}

// --- SearchStore ---

type memSearch struct{ *memStores }

func (m memSearch) Replace(kind string, docs []models.SearchDocument) error {
	m.docs[kind] = docs
	return nil
}

func (m memSearch) Query(q repository.SearchQuery) ([]models.SearchDocument, error) {
	needle := strings.ToLower(q.Text)
	var results []models.SearchDocument
	for _, doc := range m.docs[q.Kind] {
		haystack := strings.ToLower(doc.Name + " " + doc.Body + " " + doc.Tags)
		if needle != "" && !strings.Contains(haystack, needle) {
			continue
		}
		if q.Currency != "" && doc.Currency != strings.ToUpper(q.Currency) {
			continue
		}
		if q.Position != nil && q.RadiusMeters > 0 {
			point := geo.Point{Lat: doc.Latitude, Lon: doc.Longitude}
			if !geo.Within(point, *q.Position, q.RadiusMeters) {
				continue
			}
		}
		results = append(results, doc)
	}
	return results, nil
}

// --- TagStore ---

type memTags struct{ *memStores }

func (m memTags) GetOrCreate(names []string) ([]models.HashTag, error) {
	var tags []models.HashTag
	for _, name := range names {
		tag, ok := m.tags[name]
		if !ok {
			tag = models.HashTag{ID: uuid.New(), Name: name}
			m.tags[name] = tag
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (m memTags) ReplaceFor(model interface{}, tags []models.HashTag) error {
	switch v := model.(type) {
	case *models.Event:
		v.HashTags = tags
	case *models.Plan:
		v.HashTags = tags
	case *models.Profile:
		v.HashTags = tags
	case *models.Comment:
		v.HashTags = tags
	default:
		return gorm.ErrUnsupportedRelation
	}
	return nil
}
