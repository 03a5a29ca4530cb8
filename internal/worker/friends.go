package worker

import (
	"context"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/services"
	"github.com/sirupsen/logrus"
)

// FriendsWorker runs the post-event friend assignment over every ended
// event not yet processed.
type FriendsWorker struct {
	settings config.Settings
	events   services.EventStore
	friends  *services.FriendService
}

func NewFriendsWorker(settings config.Settings, events services.EventStore, friends *services.FriendService) *FriendsWorker {
	return &FriendsWorker{settings: settings, events: events, friends: friends}
}

func (w *FriendsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.settings.FriendsInterval)
	defer ticker.Stop()

	logrus.Info("Friend assignment worker started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Friend assignment worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *FriendsWorker) run(ctx context.Context) {
	events, err := w.events.EndedUnprocessed(time.Now().UTC(), w.settings.CheckinPeriod)
	if err != nil {
		logrus.Errorf("Failed to load ended events: %v", err)
		return
	}

	for i := range events {
		if err := w.friends.AssignFriends(ctx, &events[i]); err != nil {
			logrus.WithField("event", events[i].ID).Errorf("Friend assignment failed: %v", err)
		}
	}
}
