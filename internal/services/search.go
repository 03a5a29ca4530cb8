package services

import (
	"strings"
	"time"

	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/repository"
	"github.com/sirupsen/logrus"
)

// SearchService maintains the denormalized search documents and answers
// full-text queries against them. The documents are rebuilt by the index
// worker; a stale or missing index degrades results, never correctness of
// the category feeds.
type SearchService struct {
	search SearchStore
	events EventStore
	plans  PlanStore
	users  UserStore
}

func NewSearchService(search SearchStore, events EventStore, plans PlanStore, users UserStore) *SearchService {
	return &SearchService{search: search, events: events, plans: plans, users: users}
}

// Refresh rebuilds all three document kinds from the source tables.
func (s *SearchService) Refresh() error {
	if err := s.refreshEvents(); err != nil {
		return err
	}
	if err := s.refreshPlans(); err != nil {
		return err
	}
	return s.refreshProfiles()
}

func (s *SearchService) refreshEvents() error {
	events, err := s.events.All()
	if err != nil {
		return err
	}
	docs := make([]models.SearchDocument, 0, len(events))
	for _, event := range events {
		if event.Canceled != nil {
			continue
		}
		docs = append(docs, models.SearchDocument{
			Kind:       models.SearchKindEvent,
			RefID:      event.ID,
			Name:       event.Name,
			Body:       event.Description,
			Tags:       tagNames(event.HashTags),
			Latitude:   event.Location.Latitude,
			Longitude:  event.Location.Longitude,
			StartDate:  &event.StartDate,
			EndDate:    event.EndDate,
			PriceUSD:   event.Price.ConvertedAmount,
			Currency:   event.Price.CurrencyCode,
			MaxMembers: event.MaxMembers,
			JoinPolicy: event.JoinPolicy,
			UpdatedAt:  time.Now().UTC(),
		})
	}
	return s.search.Replace(models.SearchKindEvent, docs)
}

func (s *SearchService) refreshPlans() error {
	plans, err := s.plans.All()
	if err != nil {
		return err
	}
	docs := make([]models.SearchDocument, 0, len(plans))
	for _, plan := range plans {
		docs = append(docs, models.SearchDocument{
			Kind:      models.SearchKindPlan,
			RefID:     plan.ID,
			Body:      plan.Text,
			Tags:      tagNames(plan.HashTags),
			Latitude:  plan.Location.Latitude,
			Longitude: plan.Location.Longitude,
			UpdatedAt: time.Now().UTC(),
		})
	}
	return s.search.Replace(models.SearchKindPlan, docs)
}

func (s *SearchService) refreshProfiles() error {
	profiles, err := s.users.AllProfiles()
	if err != nil {
		return err
	}
	docs := make([]models.SearchDocument, 0, len(profiles))
	for _, profile := range profiles {
		docs = append(docs, models.SearchDocument{
			Kind:      models.SearchKindProfile,
			RefID:     profile.UserID,
			Name:      profile.DisplayName,
			Body:      profile.About,
			Tags:      tagNames(profile.HashTags),
			UpdatedAt: time.Now().UTC(),
		})
	}
	return s.search.Replace(models.SearchKindProfile, docs)
}

// Query runs a filtered full-text search over one document kind.
func (s *SearchService) Query(q repository.SearchQuery) ([]models.SearchDocument, error) {
	q.Text = strings.TrimSpace(q.Text)
	results, err := s.search.Query(q)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"kind": q.Kind, "hits": len(results)}).Debug("search query served")
	return results, nil
}

func tagNames(tags []models.HashTag) string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return strings.Join(names, " ")
}
