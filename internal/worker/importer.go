package worker

import (
	"context"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/services"
	"github.com/sirupsen/logrus"
)

// ImportedEvent is one event pulled from an external feed.
type ImportedEvent struct {
	SourceID     string
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      *time.Time
	Latitude     float64
	Longitude    float64
	LocationName string
	Locality     string
	CurrencyCode string
	Amount       float64
	Language     string
}

// ImportSource pulls events from one external provider.
type ImportSource interface {
	Name() string
	Fetch(ctx context.Context) ([]ImportedEvent, error)
}

// ImportWorker pulls external events on a long cadence. Imported events have
// no owner and an OPEN join policy; the (source, source_id) record keeps
// repeated runs idempotent.
type ImportWorker struct {
	settings config.Settings
	events   services.EventStore
	sources  []ImportSource
}

func NewImportWorker(settings config.Settings, events services.EventStore, sources ...ImportSource) *ImportWorker {
	return &ImportWorker{settings: settings, events: events, sources: sources}
}

func (w *ImportWorker) Start(ctx context.Context) {
	if len(w.sources) == 0 {
		logrus.Info("Import worker disabled: no sources configured")
		return
	}

	ticker := time.NewTicker(w.settings.ImportInterval)
	defer ticker.Stop()

	logrus.Info("Import worker started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Import worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ImportWorker) run(ctx context.Context) {
	for _, source := range w.sources {
		imported, err := source.Fetch(ctx)
		if err != nil {
			logrus.WithField("source", source.Name()).Errorf("Import fetch failed: %v", err)
			continue
		}

		created := 0
		for _, item := range imported {
			if item.StartDate.Before(time.Now().UTC()) {
				continue
			}
			exists, err := w.events.ImportExists(source.Name(), item.SourceID)
			if err != nil {
				logrus.WithField("source", source.Name()).Errorf("Import lookup failed: %v", err)
				continue
			}
			if exists {
				continue
			}

			language := item.Language
			if language == "" {
				language = "en"
			}
			event := &models.Event{
				Name:        item.Name,
				Description: item.Description,
				StartDate:   item.StartDate.UTC(),
				EndDate:     item.EndDate,
				JoinPolicy:  models.JoinPolicyOpen,
				Language:    language,
				MaxMembers:  w.settings.MaxMembers,
				Price: models.Price{
					CurrencyCode: item.CurrencyCode,
					Amount:       item.Amount,
				},
				Location: models.Location{
					Name:      item.LocationName,
					Locality:  item.Locality,
					Latitude:  item.Latitude,
					Longitude: item.Longitude,
				},
			}
			if err := w.events.Create(event); err != nil {
				logrus.WithField("source", source.Name()).Errorf("Import create failed: %v", err)
				continue
			}
			record := &models.EventImport{
				EventID:  event.ID,
				Source:   source.Name(),
				SourceID: item.SourceID,
			}
			if err := w.events.CreateImport(record); err != nil {
				logrus.WithField("source", source.Name()).Errorf("Import record failed: %v", err)
				continue
			}
			created++
		}
		logrus.WithFields(logrus.Fields{
			"source":  source.Name(),
			"fetched": len(imported),
			"created": created,
		}).Info("Import run finished")
	}
}
