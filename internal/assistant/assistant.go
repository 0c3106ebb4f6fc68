// Package assistant chains the local resolvers and the remote fallback into
// a single chat reply.
package assistant

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
	"fleet-assistant-backend/internal/reply"
)

// Source tells the client which stage produced a reply.
type Source string

const (
	SourceFleet       Source = "fleet"
	SourceTransaction Source = "transaction"
	SourceRemote      Source = "remote"
	SourceError       Source = "error"
)

// Reply is one assistant answer.
type Reply struct {
	Text   string `json:"reply"`
	Source Source `json:"source"`
}

// Resolver is the local rule-based stage.
type Resolver interface {
	ResolveFleet(ctx context.Context, text string, history []model.Turn) (string, bool, error)
	ResolveTransaction(ctx context.Context, text string) (string, bool, error)
}

// Fallback answers what the local rules cannot.
type Fallback interface {
	Reply(ctx context.Context, message string, history []model.Turn) (string, error)
}

// Assistant answers chat messages.
type Assistant struct {
	resolver     Resolver
	fallback     Fallback
	sessions     *Sessions
	historyTurns int
	logger       logrus.FieldLogger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithHistoryTurns limits the turns kept per session and sent to the fallback.
func WithHistoryTurns(n int) Option {
	return func(a *Assistant) { a.historyTurns = n }
}

func WithSessions(s *Sessions) Option {
	return func(a *Assistant) { a.sessions = s }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *Assistant) { a.logger = logger }
}

// New creates an Assistant. fallback may be nil, in which case unresolved
// messages get the remote apology.
func New(resolver Resolver, fallback Fallback, opts ...Option) *Assistant {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Assistant{
		resolver:     resolver,
		fallback:     fallback,
		historyTurns: 8,
		logger:       discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sessions == nil {
		a.sessions = NewSessions(a.historyTurns, 30*time.Minute)
	}
	a.logger = a.logger.WithField("component", "assistant")
	return a
}

// Reply answers message within the given session and records the exchange.
func (a *Assistant) Reply(ctx context.Context, sessionID, message string) Reply {
	history := a.sessions.History(sessionID)

	out := a.resolve(ctx, message, history)
	out.Text = parse.ReorderISODates(out.Text)

	a.sessions.Append(sessionID,
		model.Turn{Role: model.RoleUser, Content: message},
		model.Turn{Role: model.RoleAssistant, Content: out.Text},
	)
	return out
}

func (a *Assistant) resolve(ctx context.Context, message string, history []model.Turn) Reply {
	text, ok, err := a.resolver.ResolveFleet(ctx, message, history)
	if err != nil {
		a.logger.WithError(err).Error("fleet resolver failed")
		return Reply{Text: reply.FleetUnavailable, Source: SourceError}
	}
	if ok {
		return Reply{Text: text, Source: SourceFleet}
	}

	text, ok, err = a.resolver.ResolveTransaction(ctx, message)
	if err != nil {
		a.logger.WithError(err).Error("transaction resolver failed")
		return Reply{Text: reply.TransactionUnavailable, Source: SourceError}
	}
	if ok {
		return Reply{Text: text, Source: SourceTransaction}
	}

	if a.fallback == nil {
		return Reply{Text: reply.RemoteUnavailable, Source: SourceError}
	}
	text, err = a.fallback.Reply(ctx, message, lastTurns(history, a.historyTurns))
	if err != nil {
		a.logger.WithError(err).Warn("remote assistant failed")
		return Reply{Text: reply.RemoteUnavailable, Source: SourceError}
	}
	return Reply{Text: text, Source: SourceRemote}
}
