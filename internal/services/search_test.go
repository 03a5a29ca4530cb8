package services

import (
	"context"
	"testing"
	"time"

	"github.com/farellandr/fastfriends/internal/geo"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshSkipsCanceledEvents(t *testing.T) {
	f := newFixture()
	owner := f.stores.addUser("owner")
	start := time.Now().Add(2 * time.Hour)

	live := f.addEvent(owner, start, 52.52, 13.405, func(e *models.Event) { e.Name = "Live set" })
	f.addEvent(owner, start, 52.52, 13.405, func(e *models.Event) {
		e.Name = "Canceled set"
		canceled := time.Now()
		e.Canceled = &canceled
	})

	require.NoError(t, f.search.Refresh())

	docs, err := f.search.Query(repository.SearchQuery{Kind: models.SearchKindEvent, Text: "set"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, live.ID, docs[0].RefID)
}

func TestRefreshIndexesPlansAndProfiles(t *testing.T) {
	f := newFixture()
	user, err := f.users.Register(RegisterInput{
		Email: "ana@example.com", Password: "secret123", DisplayName: "AnaClimbs", About: "#climbing",
	})
	require.NoError(t, err)
	plan, err := f.plans.Create(context.Background(), user.ID, PlanInput{
		Text: "bouldering friday #climbing", Latitude: 52.52, Longitude: 13.405,
	})
	require.NoError(t, err)

	require.NoError(t, f.search.Refresh())

	docs, err := f.search.Query(repository.SearchQuery{Kind: models.SearchKindPlan, Text: "bouldering"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, plan.ID, docs[0].RefID)
	assert.Contains(t, docs[0].Tags, "climbing")

	docs, err = f.search.Query(repository.SearchQuery{Kind: models.SearchKindProfile, Text: "anaclimbs"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, user.ID, docs[0].RefID)
}

func TestQueryFiltersByCurrencyAndDistance(t *testing.T) {
	f := newFixture()
	owner := f.stores.addUser("owner")
	start := time.Now().Add(2 * time.Hour)

	// Berlin EUR, Berlin USD, Hamburg EUR. Only the first sits inside a
	// 50-mile circle around Berlin with a matching currency.
	match := f.addEvent(owner, start, 52.52, 13.405, func(e *models.Event) {
		e.Price = models.Price{CurrencyCode: "EUR", Amount: 20}
	})
	f.addEvent(owner, start, 52.52, 13.405, func(e *models.Event) {
		e.Price = models.Price{CurrencyCode: "USD", Amount: 20}
	})
	f.addEvent(owner, start, 53.55, 9.993, func(e *models.Event) {
		e.Price = models.Price{CurrencyCode: "EUR", Amount: 20}
	})

	require.NoError(t, f.search.Refresh())

	center := geo.Point{Lat: 52.52, Lon: 13.405}
	docs, err := f.search.Query(repository.SearchQuery{
		Kind:         models.SearchKindEvent,
		Currency:     "eur",
		Position:     &center,
		RadiusMeters: geo.MilesToMeters(50),
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, match.ID, docs[0].RefID)
}
