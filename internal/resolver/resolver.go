// Package resolver answers fleet and transaction questions from cached
// backend records using fixed keyword rules.
package resolver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/cache"
	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/source"
)

// DefaultTTL is how long a fetched snapshot is reused.
const DefaultTTL = 30 * time.Second

const (
	fleetKey  = "fleet"
	ledgerKey = "ledger"
)

// Resolver owns one snapshot cache per domain.
type Resolver struct {
	src    source.RecordSource
	ttl    time.Duration
	now    func() time.Time
	logger logrus.FieldLogger

	fleet  *cache.Cache
	ledger *cache.Cache
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for cache freshness and relative years.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver reading from src.
func New(src source.RecordSource, opts ...Option) *Resolver {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Resolver{
		src:    src,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithField("component", "resolver")
	r.fleet = cache.New(r.ttl, cache.WithClock(r.now))
	r.ledger = cache.New(r.ttl, cache.WithClock(r.now))
	return r
}

// FleetSnapshot returns the cached fleet view, refreshing it when stale.
func (r *Resolver) FleetSnapshot(ctx context.Context) (*aggregate.Fleet, error) {
	return cache.Fetch(ctx, r.fleet, fleetKey, r.loadFleet)
}

// LedgerSnapshot returns the cached income/expense view, refreshing it when stale.
func (r *Resolver) LedgerSnapshot(ctx context.Context) (*aggregate.Ledger, error) {
	return cache.Fetch(ctx, r.ledger, ledgerKey, r.loadLedger)
}

func (r *Resolver) loadFleet(ctx context.Context) (*aggregate.Fleet, error) {
	var (
		vehicles []model.Vehicle
		invoices []model.Invoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vehicles, err = r.src.Vehicles(gctx)
		return err
	})
	g.Go(func() (err error) {
		invoices, err = r.src.Invoices(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load fleet records: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"vehicles": len(vehicles),
		"invoices": len(invoices),
	}).Debug("fleet snapshot refreshed")
	return aggregate.BuildFleet(vehicles, invoices), nil
}

func (r *Resolver) loadLedger(ctx context.Context) (*aggregate.Ledger, error) {
	var (
		invoices []model.Invoice
		expenses []model.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		invoices, err = r.src.Invoices(gctx)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = r.src.Expenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load ledger records: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"invoices": len(invoices),
		"expenses": len(expenses),
	}).Debug("ledger snapshot refreshed")
	return aggregate.BuildLedger(invoices, expenses), nil
}

// ResolveFleet answers fleet questions. ok is false when the utterance is not
// about the fleet; in that case no records are fetched.
func (r *Resolver) ResolveFleet(ctx context.Context, text string, history []model.Turn) (string, bool, error) {
	intent, ok := ClassifyFleet(text, history, r.now())
	if !ok {
		return "", false, nil
	}

	snap, err := r.FleetSnapshot(ctx)
	if err != nil {
		return "", true, err
	}

	q := &fleetQuery{
		intent:  intent,
		snap:    snap,
		matches: MatchVehicles(text, snap.Vehicles),
	}
	rule := fleetRuleFor(q)
	r.logger.WithFields(logrus.Fields{"rule": rule.name, "matches": len(q.matches)}).Debug("fleet rule selected")
	return rule.handle(q), true, nil
}

// ResolveTransaction answers income/expense questions. ok is false when the
// utterance does not ask anything the ledger rules can answer.
func (r *Resolver) ResolveTransaction(ctx context.Context, text string) (string, bool, error) {
	intent, ok := ClassifyTransaction(text, r.now())
	if !ok {
		return "", false, nil
	}

	ledger, err := r.LedgerSnapshot(ctx)
	if err != nil {
		return "", true, err
	}

	q := &transactionQuery{intent: intent, ledger: ledger}
	rule := transactionRuleFor(q)
	r.logger.WithField("rule", rule.name).Debug("transaction rule selected")
	return rule.handle(q), true, nil
}
