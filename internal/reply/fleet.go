package reply

import (
	"fmt"
	"strings"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
)

// NoFleetData is the reply when the backend has no vehicles at all.
const NoFleetData = "Belum ada data armada."

// NoUsage is the reply to "most used" when nothing has been used in scope.
func NoUsage(scope string) string {
	return fmt.Sprintf("Belum ada armada yang digunakan%s.", scope)
}

// VehicleName renders "name (plate)" for a vehicle, falling back to whichever
// field is set.
func VehicleName(v model.Vehicle) string {
	if label := aggregate.VehicleLabel(v); label != "" {
		return label
	}
	if v.ID != "" {
		return "Armada #" + v.ID
	}
	return "-"
}

// VehicleLine is one numbered row of a vehicle listing.
func VehicleLine(i int, v aggregate.VehicleUsage) string {
	return fmt.Sprintf("%d. %s (%s) | Kapasitas (Tonase): %s | Status: %s | Penggunaan: %dx",
		i, orDash(v.Vehicle.Name), orDash(v.Vehicle.Plate), orDash(v.Vehicle.Capacity),
		parse.VehicleStatus(v.Vehicle.Status), v.UsedCount)
}

// VehicleListing renders a full listing with header and usage total.
func VehicleListing(list []aggregate.VehicleUsage, scope string) string {
	if len(list) == 0 {
		return NoFleetData
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Daftar armada%s (%d unit):", scope, len(list))
	for i, v := range list {
		b.WriteString("\n")
		b.WriteString(VehicleLine(i+1, v))
	}
	fmt.Fprintf(&b, "\nTotal penggunaan: %dx", aggregate.TotalUsage(list))
	return b.String()
}

// VehicleDetail renders the key-value block for a single vehicle.
func VehicleDetail(v aggregate.VehicleUsage, scope string) string {
	return fmt.Sprintf("Detail armada:\nNama: %s\nPlat: %s\nKapasitas (Tonase): %s\nStatus: %s\nPenggunaan: %dx%s",
		orDash(v.Vehicle.Name), orDash(v.Vehicle.Plate), orDash(v.Vehicle.Capacity),
		parse.VehicleStatus(v.Vehicle.Status), v.UsedCount, scope)
}

// Extreme renders the most (top=true) or least used vehicle.
func Extreme(v aggregate.VehicleUsage, top bool, scope string) string {
	word := "jarang"
	if top {
		word = "sering"
	}
	return fmt.Sprintf("Armada paling %s digunakan%s: %s dengan %dx penggunaan.",
		word, scope, VehicleName(v.Vehicle), v.UsedCount)
}

// UsageCount answers "berapa kali X digunakan".
func UsageCount(v aggregate.VehicleUsage, scope string) string {
	return fmt.Sprintf("Armada %s telah digunakan %dx%s.", VehicleName(v.Vehicle), v.UsedCount, scope)
}

// ScheduleKind names the requested event kinds for headers and empty replies.
func ScheduleKind(departure, arrival bool) string {
	switch {
	case departure && !arrival:
		return "keberangkatan"
	case arrival && !departure:
		return "kedatangan"
	default:
		return "keberangkatan & kedatangan"
	}
}

// Schedule renders an already filtered and sorted event list.
func Schedule(events []model.ScheduleEvent, kind, scope string) string {
	if len(events) == 0 {
		noun := kind
		if strings.Contains(kind, "&") {
			noun = "jadwal"
		}
		return fmt.Sprintf("Tidak ada data %s armada%s.", noun, scope)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Jadwal %s armada%s (%d):", kind, scope, len(events))
	capped(&b, len(events), "jadwal", func(i int) string {
		return ScheduleLine(i+1, events[i])
	})
	return b.String()
}

// ScheduleLine is one numbered schedule row.
func ScheduleLine(i int, ev model.ScheduleEvent) string {
	verb := "Tiba"
	if ev.Kind == model.EventDeparture {
		verb = "Berangkat"
	}
	return fmt.Sprintf("%d. %s: %s | Armada: %s | Invoice %s - %s",
		i, verb, parse.ToDisplayDate(ev.Date), orDash(ev.VehicleLabel), orDash(ev.InvoiceNumber), orDash(ev.Customer))
}

// ReminderTitle and Reminder are the push notification texts for an event due today.
func ReminderTitle(ev model.ScheduleEvent) string {
	if ev.Kind == model.EventDeparture {
		return "Keberangkatan armada hari ini"
	}
	return "Kedatangan armada hari ini"
}

func Reminder(ev model.ScheduleEvent) string {
	verb := "tiba"
	if ev.Kind == model.EventDeparture {
		verb = "berangkat"
	}
	text := fmt.Sprintf("Armada %s %s hari ini (Invoice %s", orDash(ev.VehicleLabel), verb, orDash(ev.InvoiceNumber))
	if ev.Customer != "" {
		text += " - " + ev.Customer
	}
	return text + ")."
}
