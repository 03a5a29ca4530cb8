package repository

import (
	"errors"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository owns every event query the services run. Discovery
// semantics live here as named methods rather than ad hoc query composition.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create persists the event together with its location, price and the
// owner's ACCEPTED membership row in one transaction.
func (r *EventRepository) Create(event *models.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		if event.OwnerID == nil {
			return nil
		}
		member := models.EventMember{
			EventID:     event.ID,
			UserID:      *event.OwnerID,
			Status:      models.MemberAccepted,
			ViewedEvent: time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
}

func (r *EventRepository) ByID(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Location").Preload("Price").Preload("HashTags").
		Where("id = ?", id).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Save(event *models.Event) error {
	return r.db.Save(event).Error
}

func (r *EventRepository) Delete(event *models.Event) error {
	return r.db.Select("Members").Delete(event).Error
}

// available scopes to events starting no earlier than lookback ago that have
// not ended and are not canceled, ordered by start date with id as the
// deterministic tie-break.
func (r *EventRepository) available(now time.Time, lookback time.Duration) *gorm.DB {
	return r.db.Model(&models.Event{}).
		Preload("Location").Preload("Price").Preload("HashTags").
		Where("start_date > ?", now.Add(-lookback)).
		Where("(end_date IS NULL OR end_date >= ?)", now).
		Where("canceled IS NULL").
		Order("start_date ASC, id ASC")
}

func (r *EventRepository) Available(now time.Time, lookback time.Duration) ([]models.Event, error) {
	var events []models.Event
	err := r.available(now, lookback).Find(&events).Error
	return events, err
}

// AvailableAttendedBy returns available events where the user holds any
// membership row in ACCEPTED, REQUESTED or INVITED state.
func (r *EventRepository) AvailableAttendedBy(userID uuid.UUID, now time.Time, lookback time.Duration) ([]models.Event, error) {
	var events []models.Event
	err := r.available(now, lookback).
		Joins("JOIN event_members ON event_members.event_id = events.id").
		Where("event_members.user_id = ? AND event_members.status IN ?",
			userID, []string{models.MemberAccepted, models.MemberRequested, models.MemberInvited}).
		Find(&events).Error
	return events, err
}

func (r *EventRepository) AvailableOwnedByAny(owners []uuid.UUID, now time.Time, lookback time.Duration) ([]models.Event, error) {
	if len(owners) == 0 {
		return nil, nil
	}
	var events []models.Event
	err := r.available(now, lookback).Where("owner_id IN ?", owners).Find(&events).Error
	return events, err
}

// AvailableWithinBox applies a coarse lat/lon window; callers narrow the
// result with the exact projected-distance check.
func (r *EventRepository) AvailableWithinBox(now time.Time, lookback time.Duration, minLat, maxLat, minLon, maxLon float64) ([]models.Event, error) {
	var events []models.Event
	err := r.available(now, lookback).
		Joins("JOIN locations ON locations.id = events.location_id").
		Where("locations.latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("locations.longitude BETWEEN ? AND ?", minLon, maxLon).
		Find(&events).Error
	return events, err
}

// AttendedBefore returns past events the user was an accepted member of,
// newest first. Used by the history feed.
func (r *EventRepository) AttendedBefore(userID uuid.UUID, now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Location").Preload("Price").
		Joins("JOIN event_members ON event_members.event_id = events.id").
		Where("event_members.user_id = ? AND event_members.status = ?", userID, models.MemberAccepted).
		Where("start_date < ?", now).
		Order("start_date DESC, events.id ASC").
		Find(&events).Error
	return events, err
}

// EndedUnprocessed returns events the friend-assignment batch has not handled
// yet: ended by end date, or with no end date and started more than
// checkinPeriod ago. Newest start date first, matching the original batch
// ordering.
func (r *EventRepository) EndedUnprocessed(now time.Time, checkinPeriod time.Duration) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("added_friends = false").
		Where("(end_date IS NOT NULL AND end_date < ?) OR (end_date IS NULL AND start_date < ?)",
			now, now.Add(-checkinPeriod)).
		Order("start_date DESC").
		Find(&events).Error
	return events, err
}

// StartingSoonUnnotified returns events starting before the given instant
// whose start reminder has not fired, soonest first.
func (r *EventRepository) StartingSoonUnnotified(before time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("notified_start = false AND canceled IS NULL").
		Where("start_date < ?", before).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) MemberCount(eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventMember{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *EventRepository) AcceptedCount(eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventMember{}).
		Where("event_id = ? AND status = ?", eventID, models.MemberAccepted).
		Count(&count).Error
	return count, err
}

func (r *EventRepository) All() ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Location").Preload("Price").Preload("HashTags").Find(&events).Error
	return events, err
}

func (r *EventRepository) ImportExists(source, sourceID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.EventImport{}).
		Where("source = ? AND source_id = ?", source, sourceID).
		Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) CreateImport(imp *models.EventImport) error {
	return r.db.Create(imp).Error
}
