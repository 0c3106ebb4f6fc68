package aggregate

import (
	"sort"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
)

// ScheduleEvents emits a departure and an arrival event for every line item
// whose start and end dates resolve. Item dates win over invoice dates.
func ScheduleEvents(invoices []model.Invoice, vehicles []model.Vehicle) []model.ScheduleEvent {
	byID := make(map[string]model.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	var events []model.ScheduleEvent
	for i := range invoices {
		inv := &invoices[i]
		items := LineItems(inv)
		for j := range items {
			item := &items[j]
			vehicleID := ResolveVehicleID(item, inv)
			label := vehicleLabel(item, inv, vehicleID, byID)

			base := model.ScheduleEvent{
				VehicleLabel:  label,
				VehicleID:     vehicleID,
				InvoiceNumber: inv.Number,
				Customer:      inv.Customer,
			}
			if start := parse.NormalizeDate(firstNonEmpty(item.StartDate, inv.StartDate)); start != "" {
				ev := base
				ev.Kind = model.EventDeparture
				ev.Date = start
				events = append(events, ev)
			}
			if end := parse.NormalizeDate(firstNonEmpty(item.EndDate, inv.EndDate)); end != "" {
				ev := base
				ev.Kind = model.EventArrival
				ev.Date = end
				events = append(events, ev)
			}
		}
	}
	return events
}

// VehicleLabel renders "name (plate)", or whichever of the two is known.
func VehicleLabel(v model.Vehicle) string {
	switch {
	case v.Name != "" && v.Plate != "":
		return v.Name + " (" + v.Plate + ")"
	case v.Name != "":
		return v.Name
	default:
		return v.Plate
	}
}

func vehicleLabel(item *model.LineItem, inv *model.Invoice, vehicleID string, byID map[string]model.Vehicle) string {
	var embedded *model.Vehicle
	switch {
	case item.Vehicle != nil:
		embedded = item.Vehicle
	case item.VehicleID == "" && inv.Vehicle != nil:
		embedded = inv.Vehicle
	}
	if embedded != nil {
		if label := VehicleLabel(*embedded); label != "" {
			return label
		}
	}
	if v, ok := byID[vehicleID]; ok {
		if label := VehicleLabel(v); label != "" {
			return label
		}
	}
	if vehicleID != "" {
		return "Armada #" + vehicleID
	}
	return "-"
}

// FilterEvents keeps events of the given kinds, vehicles and years. Empty
// filters match everything.
func FilterEvents(events []model.ScheduleEvent, kinds []model.EventKind, vehicleIDs []string, years []string) []model.ScheduleEvent {
	kindSet := make(map[model.EventKind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}
	vehicleSet := make(map[string]bool, len(vehicleIDs))
	for _, id := range vehicleIDs {
		vehicleSet[id] = true
	}

	out := make([]model.ScheduleEvent, 0, len(events))
	for _, ev := range events {
		if len(kindSet) > 0 && !kindSet[ev.Kind] {
			continue
		}
		if len(vehicleSet) > 0 && !vehicleSet[ev.VehicleID] {
			continue
		}
		if !parse.DateInYears(ev.Date, years) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// SortEvents returns a copy ordered by date, newest first unless ascending.
// Events on the same date keep their generation order.
func SortEvents(events []model.ScheduleEvent, ascending bool) []model.ScheduleEvent {
	out := make([]model.ScheduleEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		c := parse.CompareDates(out[i].Date, out[j].Date)
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
