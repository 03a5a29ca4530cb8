package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/notify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PlanInput struct {
	Text         string
	Latitude     float64
	Longitude    float64
	LocationName string
	Locality     string
	AdminArea    string
	Language     string
}

// PlanService covers the plan lifecycle. Plans have no membership; the
// conversation around a plan is its comment thread, and notifications go to
// the owner plus everyone who commented.
type PlanService struct {
	plans      PlanStore
	users      UserStore
	comments   CommentStore
	tags       *TagService
	dispatcher notify.Dispatcher
}

func NewPlanService(plans PlanStore, users UserStore, comments CommentStore,
	tags *TagService, dispatcher notify.Dispatcher) *PlanService {
	return &PlanService{
		plans:      plans,
		users:      users,
		comments:   comments,
		tags:       tags,
		dispatcher: dispatcher,
	}
}

func (s *PlanService) Create(ctx context.Context, ownerID uuid.UUID, input PlanInput) (*models.Plan, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", models.ErrInvalidInput)
	}
	if _, err := geo.NewPoint(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}
	if input.Language == "" {
		input.Language = "en"
	}

	plan := &models.Plan{
		OwnerID:  ownerID,
		Text:     input.Text,
		Language: input.Language,
		Location: models.Location{
			Name:      input.LocationName,
			Locality:  input.Locality,
			AdminArea: input.AdminArea,
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
		},
	}
	if err := s.plans.Create(plan); err != nil {
		return nil, err
	}
	if _, err := s.tags.Apply(plan, plan.Text); err != nil {
		logrus.WithField("plan", plan.ID).Warnf("tagging failed: %v", err)
	}
	return plan, nil
}

// Update rewrites the plan text and tells the thread about it.
func (s *PlanService) Update(ctx context.Context, planID, ownerID uuid.UUID, text string) (*models.Plan, error) {
	plan, err := s.plans.ByID(planID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", models.ErrInvalidInput)
	}

	plan.Text = text
	if err := s.plans.Save(plan); err != nil {
		return nil, err
	}
	if _, err := s.tags.Apply(plan, plan.Text); err != nil {
		logrus.WithField("plan", plan.ID).Warnf("tagging failed: %v", err)
	}

	owner, err := s.users.ByID(ownerID)
	if err != nil {
		return plan, nil
	}
	s.notifyThread(ctx, plan, ownerID, notify.PlanUpdatePayload(plan.ID, plan.Text, actorOf(owner)))
	return plan, nil
}

func (s *PlanService) Delete(planID, ownerID uuid.UUID) error {
	plan, err := s.plans.ByID(planID)
	if err != nil {
		return err
	}
	if plan.OwnerID != ownerID {
		return models.ErrForbidden
	}
	return s.plans.Delete(plan)
}

func (s *PlanService) Get(planID uuid.UUID) (*models.Plan, error) {
	return s.plans.ByID(planID)
}

// Comment adds to the plan's thread. Anyone may comment on a plan.
func (s *PlanService) Comment(ctx context.Context, planID, authorID uuid.UUID, message string) (*models.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrInvalidInput)
	}

	plan, err := s.plans.ByID(planID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		OwnerID: authorID,
		Message: message,
		PlanID:  &planID,
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
	s.notifyThread(ctx, plan, authorID,
		notify.PlanCommentPayload(comment.ID, plan.ID, plan.Text, message, actorOf(author)))
	return comment, nil
}

func (s *PlanService) Comments(planID uuid.UUID) ([]models.Comment, error) {
	return s.comments.OfPlan(planID)
}

// notifyThread fans out to the plan owner and every commenter except the
// actor themselves.
func (s *PlanService) notifyThread(ctx context.Context, plan *models.Plan, actorID uuid.UUID, payload notify.Payload) {
	commenters, err := s.comments.CommenterIDs(plan.ID)
	if err != nil {
		logrus.WithField("plan", plan.ID).Errorf("failed to load commenters for fan-out: %v", err)
		return
	}

	seen := map[uuid.UUID]bool{actorID: true}
	var users []uuid.UUID
	for _, id := range append(commenters, plan.OwnerID) {
		if !seen[id] {
			seen[id] = true
			users = append(users, id)
		}
	}
	if len(users) == 0 {
		return
	}
	if err := s.dispatcher.Notify(ctx, users, payload); err != nil {
		logrus.WithField("type", payload.Type).Errorf("notification dispatch failed: %v", err)
	}
}
