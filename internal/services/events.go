package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/notify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EventInput struct {
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      *time.Time
	Latitude     float64
	Longitude    float64
	LocationName string
	Locality     string
	AdminArea    string
	PostalCode   string
	CurrencyCode string
	Amount       float64
	JoinPolicy   string
	Language     string
	MaxMembers   int
}

// EventService owns the event lifecycle outside the membership state
// machine: creation, edits and comments.
type EventService struct {
	settings   config.Settings
	events     EventStore
	members    MemberStore
	users      UserStore
	comments   CommentStore
	tags       *TagService
	converter  Converter
	dispatcher notify.Dispatcher
}

func NewEventService(settings config.Settings, events EventStore, members MemberStore,
	users UserStore, comments CommentStore, tags *TagService, converter Converter,
	dispatcher notify.Dispatcher) *EventService {
	return &EventService{
		settings:   settings,
		events:     events,
		members:    members,
		users:      users,
		comments:   comments,
		tags:       tags,
		converter:  converter,
		dispatcher: dispatcher,
	}
}

func (s *EventService) validate(input *EventInput, now time.Time) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if input.StartDate.Before(now.Add(s.settings.MinStartLeadTime)) {
		return fmt.Errorf("%w: start date must be at least %s away",
			models.ErrInvalidInput, s.settings.MinStartLeadTime)
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", models.ErrInvalidInput)
	}
	if !models.ValidJoinPolicy(input.JoinPolicy) {
		return fmt.Errorf("%w: unknown join policy %q", models.ErrInvalidInput, input.JoinPolicy)
	}
	if input.MaxMembers < s.settings.MinMembers {
		return fmt.Errorf("%w: at least %d members required",
			models.ErrInvalidInput, s.settings.MinMembers)
	}
	if input.Amount < 0 {
		return fmt.Errorf("%w: price cannot be negative", models.ErrInvalidInput)
	}
	if _, err := geo.NewPoint(input.Latitude, input.Longitude); err != nil {
		return err
	}
	return nil
}

// Create validates the input, converts the price to USD and stores the event
// with its owner as the first ACCEPTED member. A conversion failure is not
// fatal: the event is created with a zero converted amount and the index
// refresh picks the price up once rates are available again.
func (s *EventService) Create(ctx context.Context, ownerID uuid.UUID, input EventInput) (*models.Event, error) {
	if err := s.validate(&input, time.Now().UTC()); err != nil {
		return nil, err
	}
	if input.MaxMembers > s.settings.MaxMembers {
		input.MaxMembers = s.settings.MaxMembers
	}
	if input.Language == "" {
		input.Language = "en"
	}

	event := &models.Event{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     &ownerID,
		StartDate:   input.StartDate.UTC(),
		EndDate:     input.EndDate,
		JoinPolicy:  input.JoinPolicy,
		Language:    input.Language,
		MaxMembers:  input.MaxMembers,
		Price:       s.price(ctx, input.CurrencyCode, input.Amount),
		Location: models.Location{
			Name:       input.LocationName,
			Locality:   input.Locality,
			AdminArea:  input.AdminArea,
			PostalCode: input.PostalCode,
			Latitude:   input.Latitude,
			Longitude:  input.Longitude,
		},
	}

	if err := s.events.Create(event); err != nil {
		return nil, err
	}
	if _, err := s.tags.Apply(event, event.Name, event.Description); err != nil {
		logrus.WithField("event", event.ID).Warnf("tagging failed: %v", err)
	}
	return event, nil
}

// Update applies owner edits and notifies every accepted member apart from
// the owner. Location and policy are fixed after creation.
func (s *EventService) Update(ctx context.Context, eventID, ownerID uuid.UUID, input EventInput) (*models.Event, error) {
	event, err := s.events.ByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID == nil || *event.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}

	now := time.Now().UTC()
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if !input.StartDate.Equal(event.StartDate) && input.StartDate.Before(now.Add(s.settings.MinStartLeadTime)) {
		return nil, fmt.Errorf("%w: start date must be at least %s away",
			models.ErrInvalidInput, s.settings.MinStartLeadTime)
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", models.ErrInvalidInput)
	}
	if input.MaxMembers < s.settings.MinMembers {
		return nil, fmt.Errorf("%w: at least %d members required",
			models.ErrInvalidInput, s.settings.MinMembers)
	}

	event.Name = input.Name
	event.Description = input.Description
	event.StartDate = input.StartDate.UTC()
	event.EndDate = input.EndDate
	event.MaxMembers = input.MaxMembers
	if input.Language != "" {
		event.Language = input.Language
	}
	if input.CurrencyCode != "" {
		price := s.price(ctx, input.CurrencyCode, input.Amount)
		event.Price.CurrencyCode = price.CurrencyCode
		event.Price.Amount = price.Amount
		event.Price.ConvertedAmount = price.ConvertedAmount
	}

	if err := s.events.Save(event); err != nil {
		return nil, err
	}
	if _, err := s.tags.Apply(event, event.Name, event.Description); err != nil {
		logrus.WithField("event", event.ID).Warnf("tagging failed: %v", err)
	}

	users, err := s.members.UserIDsOfEvent(eventID)
	if err != nil {
		logrus.WithField("event", eventID).Errorf("failed to load members for update fan-out: %v", err)
		return event, nil
	}
	s.notify(ctx, withoutUser(users, ownerID), notify.EventUpdatePayload(event.ID, event.Name))
	return event, nil
}

// Get loads an event and records that the viewer has seen its current state.
func (s *EventService) Get(eventID, viewerID uuid.UUID) (*models.Event, error) {
	event, err := s.events.ByID(eventID)
	if err != nil {
		return nil, err
	}

	member, err := s.members.Get(eventID, viewerID)
	if err == nil {
		member.ViewedEvent = time.Now().UTC()
		if err := s.members.Save(member); err != nil {
			logrus.WithField("event", eventID).Warnf("failed to update viewed_event: %v", err)
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	return event, nil
}

// Comment attaches a comment to the event and notifies members, minus the
// author. Only members may comment.
func (s *EventService) Comment(ctx context.Context, eventID, authorID uuid.UUID, message string) (*models.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrInvalidInput)
	}

	event, err := s.events.ByID(eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.members.Get(eventID, authorID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrForbidden
		}
		return nil, err
	}

	comment := &models.Comment{
		OwnerID: authorID,
		Message: message,
		EventID: &eventID,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	if _, err := s.tags.Apply(comment, message); err != nil {
		logrus.WithField("comment", comment.ID).Warnf("tagging failed: %v", err)
	}

	author, err := s.users.ByID(authorID)
	if err != nil {
		return comment, nil
	}
	users, err := s.members.UserIDsOfEvent(eventID)
	if err != nil {
		logrus.WithField("event", eventID).Errorf("failed to load members for comment fan-out: %v", err)
		return comment, nil
	}
	s.notify(ctx, withoutUser(users, authorID),
		notify.EventCommentPayload(comment.ID, event.ID, event.Name, message, actorOf(author)))
	return comment, nil
}

func (s *EventService) Comments(eventID uuid.UUID) ([]models.Comment, error) {
	return s.comments.OfEvent(eventID)
}

func (s *EventService) price(ctx context.Context, code string, amount float64) models.Price {
	if code == "" {
		code = "USD"
	}
	code = strings.ToUpper(code)
	converted, err := s.converter.ToUSD(ctx, code, amount)
	if err != nil {
		logrus.WithField("currency", code).Warnf("price conversion failed: %v", err)
		converted = 0
	}
	return models.Price{CurrencyCode: code, Amount: amount, ConvertedAmount: converted}
}

func (s *EventService) notify(ctx context.Context, users []uuid.UUID, payload notify.Payload) {
	if err := s.dispatcher.Notify(ctx, users, payload); err != nil {
		logrus.WithField("type", payload.Type).Errorf("notification dispatch failed: %v", err)
	}
}
