// Package reminder pushes departure and arrival notices for schedule events
// that fall on the current day.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"fleet-assistant-backend/config"
	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/notification"
	"fleet-assistant-backend/internal/reply"
)

// announcedFor is how long an event stays marked as sent.
const announcedFor = 24 * time.Hour

// FleetSource yields the current fleet snapshot.
type FleetSource interface {
	FleetSnapshot(ctx context.Context) (*aggregate.Fleet, error)
}

// Dispatcher queues notification jobs.
type Dispatcher interface {
	Dispatch(ctx context.Context, job notification.Job) bool
}

// Payload is the JSON body delivered to the service worker.
type Payload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	VehicleID string `json:"vehicle_id"`
	Invoice   string `json:"invoice"`
	Kind      string `json:"kind"`
}

// Service scans the schedule on a fixed interval.
type Service struct {
	interval   time.Duration
	loc        *time.Location
	fleet      FleetSource
	dispatcher Dispatcher
	announced  *gocache.Cache
	now        func() time.Time
	logger     logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now when deciding which day it is.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a reminder service. The timezone decides what "today" is.
func NewService(cfg config.ReminderConfig, fleet FleetSource, dispatcher Dispatcher, logger logrus.FieldLogger, opts ...Option) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}
	s := &Service{
		interval:   cfg.Interval,
		loc:        loc,
		fleet:      fleet,
		dispatcher: dispatcher,
		announced:  gocache.New(announcedFor, time.Hour),
		now:        time.Now,
		logger:     logger.WithField("component", "reminder"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run checks once immediately and then on every interval until ctx ends.
func (s *Service) Run(ctx context.Context) {
	s.logger.WithField("interval", s.interval).Info("starting reminder service")
	s.CheckOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder service shutting down")
			return
		case <-timer.C:
			s.CheckOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// CheckOnce dispatches today's events that were not announced yet and
// returns how many jobs were queued.
func (s *Service) CheckOnce(ctx context.Context) int {
	fleet, err := s.fleet.FleetSnapshot(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("could not load fleet snapshot")
		return 0
	}

	today := s.now().In(s.loc).Format("2006-01-02")
	sent := 0
	for _, ev := range fleet.Events {
		if ev.Date != today || ev.VehicleID == "" {
			continue
		}
		key := eventKey(ev)
		if _, done := s.announced.Get(key); done {
			continue
		}

		payload, err := json.Marshal(Payload{
			Title:     reply.ReminderTitle(ev),
			Body:      reply.Reminder(ev),
			VehicleID: ev.VehicleID,
			Invoice:   ev.InvoiceNumber,
			Kind:      string(ev.Kind),
		})
		if err != nil {
			s.logger.WithError(err).Error("failed to encode reminder")
			continue
		}
		if !s.dispatcher.Dispatch(ctx, notification.Job{VehicleID: ev.VehicleID, Payload: payload}) {
			return sent
		}
		s.announced.SetDefault(key, struct{}{})
		sent++
	}

	if sent > 0 {
		s.logger.WithField("count", sent).Info("dispatched reminders")
	}
	return sent
}

func eventKey(ev model.ScheduleEvent) string {
	return string(ev.Kind) + "|" + ev.Date + "|" + ev.VehicleID + "|" + ev.InvoiceNumber
}
