package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/model"
)

type fleetUsageResponse struct {
	Years      []string                 `json:"years"`
	TotalUsage int                      `json:"total_usage"`
	Vehicles   []aggregate.VehicleUsage `json:"vehicles"`
}

// FleetUsage handles GET /api/fleet/usage.
func (h *Handler) FleetUsage(c *gin.Context) {
	years, err := queryYears(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fleet, err := h.snapshots.FleetSnapshot(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load fleet snapshot")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "fleet data unavailable"})
		return
	}

	ranked := fleet.RankedForYears(years)
	c.JSON(http.StatusOK, fleetUsageResponse{
		Years:      nonNil(years),
		TotalUsage: aggregate.TotalUsage(ranked),
		Vehicles:   nonNil(ranked),
	})
}

// FleetSchedule handles GET /api/fleet/schedule.
// Filters: kind=departure|arrival, year, vehicle (id, repeatable), order=asc|desc.
func (h *Handler) FleetSchedule(c *gin.Context) {
	years, err := queryYears(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var kinds []model.EventKind
	switch kind := c.Query("kind"); kind {
	case "":
	case string(model.EventDeparture), string(model.EventArrival):
		kinds = []model.EventKind{model.EventKind(kind)}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be departure or arrival"})
		return
	}

	ascending := false
	switch c.DefaultQuery("order", "desc") {
	case "asc":
		ascending = true
	case "desc":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must be asc or desc"})
		return
	}

	fleet, err := h.snapshots.FleetSnapshot(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load fleet snapshot")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "fleet data unavailable"})
		return
	}

	events := aggregate.FilterEvents(fleet.Events, kinds, c.QueryArray("vehicle"), years)
	c.JSON(http.StatusOK, gin.H{"events": nonNil(aggregate.SortEvents(events, ascending))})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
