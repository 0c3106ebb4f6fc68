// Package aggregate derives fleet and ledger views from raw backend records.
package aggregate

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
)

// VehicleUsage is a vehicle annotated with how many line items used it.
type VehicleUsage struct {
	Vehicle   model.Vehicle `json:"vehicle"`
	UsedCount int           `json:"used_count"`
}

// ResolveVehicleID finds the vehicle a line item refers to: the item's own
// id, then the item's embedded vehicle, then the invoice-level reference.
// item may be nil for invoice-level lookups.
func ResolveVehicleID(item *model.LineItem, inv *model.Invoice) string {
	if item != nil {
		if item.VehicleID != "" {
			return item.VehicleID
		}
		if item.Vehicle != nil && item.Vehicle.ID != "" {
			return item.Vehicle.ID
		}
	}
	if inv == nil {
		return ""
	}
	if inv.VehicleID != "" {
		return inv.VehicleID
	}
	if inv.Vehicle != nil {
		return inv.Vehicle.ID
	}
	return ""
}

// LineItems returns the invoice's items, or a single empty item standing for
// the invoice itself when it has none.
func LineItems(inv *model.Invoice) []model.LineItem {
	if len(inv.Items) == 0 {
		return []model.LineItem{{}}
	}
	return inv.Items
}

// UsageCounts counts line items per vehicle id. When years is non-empty only
// invoices dated in one of those years are counted.
func UsageCounts(invoices []model.Invoice, years []string) map[string]int {
	counts := make(map[string]int)
	for i := range invoices {
		inv := &invoices[i]
		if !parse.DateInYears(parse.NormalizeDate(inv.Date), years) {
			continue
		}
		items := LineItems(inv)
		for j := range items {
			if id := ResolveVehicleID(&items[j], inv); id != "" {
				counts[id]++
			}
		}
	}
	return counts
}

// RankVehicles annotates every vehicle with its count and sorts by count
// descending, then by name in Indonesian collation order.
func RankVehicles(vehicles []model.Vehicle, counts map[string]int) []VehicleUsage {
	ranked := make([]VehicleUsage, 0, len(vehicles))
	for _, v := range vehicles {
		ranked = append(ranked, VehicleUsage{Vehicle: v, UsedCount: counts[v.ID]})
	}

	col := collate.New(language.Indonesian)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].UsedCount != ranked[j].UsedCount {
			return ranked[i].UsedCount > ranked[j].UsedCount
		}
		return col.CompareString(ranked[i].Vehicle.Name, ranked[j].Vehicle.Name) < 0
	})
	return ranked
}

// TotalUsage sums the usage counts of a ranked list.
func TotalUsage(list []VehicleUsage) int {
	total := 0
	for _, v := range list {
		total += v.UsedCount
	}
	return total
}

// Least returns the least used vehicle. Among equally unused vehicles the
// first by name wins, matching the ranking order.
func Least(list []VehicleUsage) (VehicleUsage, bool) {
	if len(list) == 0 {
		return VehicleUsage{}, false
	}
	min := list[len(list)-1].UsedCount
	for _, v := range list {
		if v.UsedCount == min {
			return v, true
		}
	}
	return list[len(list)-1], true
}
