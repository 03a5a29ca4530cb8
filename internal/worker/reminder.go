// Package worker holds the periodic jobs: check-in reminders, post-event
// friend assignment, search index refresh and external event import. Each
// worker is a ticker loop stopped through its context.
package worker

import (
	"context"
	"time"

	"github.com/farellandr/fastfriends/config"
	"github.com/farellandr/fastfriends/internal/models"
	"github.com/farellandr/fastfriends/internal/notify"
	"github.com/farellandr/fastfriends/internal/services"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReminderWorker notifies accepted members shortly before their event's
// check-in window opens. NotifiedStart makes each event fire at most once.
type ReminderWorker struct {
	settings   config.Settings
	events     services.EventStore
	members    services.MemberStore
	dispatcher notify.Dispatcher
}

func NewReminderWorker(settings config.Settings, events services.EventStore,
	members services.MemberStore, dispatcher notify.Dispatcher) *ReminderWorker {
	return &ReminderWorker{
		settings:   settings,
		events:     events,
		members:    members,
		dispatcher: dispatcher,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.settings.ReminderInterval)
	defer ticker.Stop()

	logrus.Info("Reminder worker started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ReminderWorker) run(ctx context.Context) {
	cutoff := time.Now().UTC().Add(w.settings.CheckinLeadTime)
	events, err := w.events.StartingSoonUnnotified(cutoff)
	if err != nil {
		logrus.Errorf("Failed to load events starting soon: %v", err)
		return
	}

	for i := range events {
		event := &events[i]
		members, err := w.members.OfEvent(event.ID, models.MemberAccepted)
		if err != nil {
			logrus.WithField("event", event.ID).Errorf("Failed to load members for reminder: %v", err)
			continue
		}

		recipients := make([]uuid.UUID, 0, len(members))
		for _, member := range members {
			recipients = append(recipients, member.UserID)
		}
		if len(recipients) > 0 {
			if err := w.dispatcher.Notify(ctx, recipients,
				notify.CheckinReminderPayload(event.ID, event.Name)); err != nil {
				logrus.WithField("event", event.ID).Errorf("Reminder dispatch failed: %v", err)
			}
		}

		event.NotifiedStart = true
		if err := w.events.Save(event); err != nil {
			logrus.WithField("event", event.ID).Errorf("Failed to mark event notified: %v", err)
		}
	}
}
