package api

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/assistant"
	"fleet-assistant-backend/internal/store"
)

// Chatter answers one chat message within a session.
type Chatter interface {
	Reply(ctx context.Context, sessionID, message string) assistant.Reply
}

// Snapshots exposes the cached fleet and ledger views.
type Snapshots interface {
	FleetSnapshot(ctx context.Context) (*aggregate.Fleet, error)
	LedgerSnapshot(ctx context.Context) (*aggregate.Ledger, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	assistant Chatter
	snapshots Snapshots
	store     store.Store
	webpush   *webpush.Options
	logger    logrus.FieldLogger
}

// NewHandler creates a new API handler. s may be nil when no database is
// configured; the subscription routes are then not registered.
func NewHandler(a Chatter, snapshots Snapshots, s store.Store, webpushOptions *webpush.Options, logger logrus.FieldLogger) *Handler {
	return &Handler{
		assistant: a,
		snapshots: snapshots,
		store:     s,
		webpush:   webpushOptions,
		logger:    logger.WithField("component", "api"),
	}
}

var yearParam = regexp.MustCompile(`^\d{4}$`)

// queryYears reads ?year=2023&year=2024 or ?year=2023,2024.
func queryYears(c *gin.Context) ([]string, error) {
	var years []string
	seen := make(map[string]bool)
	for _, raw := range c.QueryArray("year") {
		for _, y := range strings.Split(raw, ",") {
			y = strings.TrimSpace(y)
			if y == "" {
				continue
			}
			if !yearParam.MatchString(y) {
				return nil, fmt.Errorf("invalid year %q", y)
			}
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
	}
	return years, nil
}
