package worker

import (
	"context"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/services"
	"github.com/sirupsen/logrus"
)

// IndexWorker rebuilds the search documents on a fixed cadence. Search
// results lag the source tables by at most one interval.
type IndexWorker struct {
	settings config.Settings
	search   *services.SearchService
}

func NewIndexWorker(settings config.Settings, search *services.SearchService) *IndexWorker {
	return &IndexWorker{settings: settings, search: search}
}

func (w *IndexWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.settings.IndexInterval)
	defer ticker.Stop()

	logrus.Info("Index refresh worker started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Index refresh worker stopped")
			return
		case <-ticker.C:
			if err := w.search.Refresh(); err != nil {
				logrus.Errorf("Search index refresh failed: %v", err)
			}
		}
	}
}
