package resolver

import (
	"strings"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/reply"
)

type fleetQuery struct {
	intent  FleetIntent
	snap    *aggregate.Fleet
	matches []model.Vehicle

	rankedCache []aggregate.VehicleUsage
}

// ranked is the usage ranking, recounted for the requested years.
func (q *fleetQuery) ranked() []aggregate.VehicleUsage {
	if q.rankedCache == nil {
		q.rankedCache = q.snap.RankedForYears(q.intent.Years)
	}
	return q.rankedCache
}

// matched returns the ranked entries of the matched vehicles, in rank order.
func (q *fleetQuery) matched() []aggregate.VehicleUsage {
	keys := make(map[string]bool, len(q.matches))
	for _, v := range q.matches {
		keys[vehicleKey(v)] = true
	}
	var out []aggregate.VehicleUsage
	for _, v := range q.ranked() {
		if keys[vehicleKey(v.Vehicle)] {
			out = append(out, v)
		}
	}
	return out
}

func (q *fleetQuery) yearScope() string {
	return reply.Scope("", q.intent.Years)
}

type fleetRule struct {
	name   string
	match  func(q *fleetQuery) bool
	handle func(q *fleetQuery) string
}

// fleetRules is evaluated top to bottom; the last rule always matches.
var fleetRules = []fleetRule{
	{name: "schedule", match: func(q *fleetQuery) bool { return q.intent.Schedule }, handle: scheduleReply},
	{name: "detail", match: func(q *fleetQuery) bool { return q.intent.Detail }, handle: detailReply},
	{name: "list", match: func(q *fleetQuery) bool { return q.intent.List }, handle: listReply},
	{name: "top", match: func(q *fleetQuery) bool { return q.intent.Top }, handle: extremeReply(true)},
	{name: "least", match: func(q *fleetQuery) bool { return q.intent.Least }, handle: extremeReply(false)},
	{name: "default", match: func(*fleetQuery) bool { return true }, handle: defaultReply},
}

func fleetRuleFor(q *fleetQuery) fleetRule {
	for _, rule := range fleetRules {
		if rule.match(q) {
			return rule
		}
	}
	return fleetRules[len(fleetRules)-1]
}

func scheduleReply(q *fleetQuery) string {
	var kinds []model.EventKind
	switch {
	case q.intent.Departure && !q.intent.Arrival:
		kinds = []model.EventKind{model.EventDeparture}
	case q.intent.Arrival && !q.intent.Departure:
		kinds = []model.EventKind{model.EventArrival}
	}

	var (
		ids    []string
		labels []string
	)
	for _, v := range q.matches {
		if v.ID != "" {
			ids = append(ids, v.ID)
		}
		labels = append(labels, reply.VehicleName(v))
	}
	if len(q.matches) > 0 && len(ids) == 0 {
		// matched vehicles without ids can never own an event
		ids = []string{"\x00"}
	}

	events := aggregate.FilterEvents(q.snap.Events, kinds, ids, q.intent.Years)
	events = aggregate.SortEvents(events, q.intent.Earliest)
	scope := reply.Scope(strings.Join(labels, ", "), q.intent.Years)
	return reply.Schedule(events, reply.ScheduleKind(q.intent.Departure, q.intent.Arrival), scope)
}

func detailReply(q *fleetQuery) string {
	if len(q.matches) == 1 {
		if m := q.matched(); len(m) == 1 {
			return reply.VehicleDetail(m[0], q.yearScope())
		}
	}
	return listReply(q)
}

func listReply(q *fleetQuery) string {
	if len(q.snap.Vehicles) == 0 {
		return reply.NoFleetData
	}
	list := q.ranked()
	if len(q.matches) > 0 {
		list = q.matched()
	}
	return reply.VehicleListing(list, q.yearScope())
}

func extremeReply(top bool) func(q *fleetQuery) string {
	return func(q *fleetQuery) string {
		list := q.ranked()
		if len(q.matches) > 1 {
			list = q.matched()
		}
		if len(list) == 0 {
			return reply.NoFleetData
		}

		if top {
			if list[0].UsedCount == 0 {
				return reply.NoUsage(q.yearScope())
			}
			return reply.Extreme(list[0], true, q.yearScope())
		}
		least, _ := aggregate.Least(list)
		return reply.Extreme(least, false, q.yearScope())
	}
}

func defaultReply(q *fleetQuery) string {
	if len(q.matches) != 1 {
		return listReply(q)
	}
	m := q.matched()
	if len(m) != 1 {
		return listReply(q)
	}
	if q.intent.Count || q.intent.Usage {
		return reply.UsageCount(m[0], q.yearScope())
	}
	return reply.VehicleDetail(m[0], q.yearScope())
}
