package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-assistant-backend/internal/model"
)

func TestResolveVehicleID(t *testing.T) {
	testCases := []struct {
		name     string
		item     *model.LineItem
		invoice  *model.Invoice
		expected string
	}{
		{
			name:     "item id wins",
			item:     &model.LineItem{VehicleID: "1", Vehicle: &model.Vehicle{ID: "2"}},
			invoice:  &model.Invoice{VehicleID: "3"},
			expected: "1",
		},
		{
			name:     "item embedded vehicle",
			item:     &model.LineItem{Vehicle: &model.Vehicle{ID: "2"}},
			invoice:  &model.Invoice{VehicleID: "3"},
			expected: "2",
		},
		{
			name:     "invoice id",
			item:     &model.LineItem{},
			invoice:  &model.Invoice{VehicleID: "3", Vehicle: &model.Vehicle{ID: "4"}},
			expected: "3",
		},
		{
			name:     "invoice embedded vehicle",
			item:     nil,
			invoice:  &model.Invoice{Vehicle: &model.Vehicle{ID: "4"}},
			expected: "4",
		},
		{
			name:     "nothing resolvable",
			item:     &model.LineItem{},
			invoice:  &model.Invoice{},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveVehicleID(tc.item, tc.invoice))
		})
	}
}

func TestUsageCounts(t *testing.T) {
	invoices := []model.Invoice{
		{
			Number: "INC-2024-001",
			Date:   "2024-01-05",
			Items: []model.LineItem{
				{VehicleID: "A"},
				{Vehicle: &model.Vehicle{ID: "A"}},
				{},
			},
			VehicleID: "B",
		},
		// no line items: one increment from the invoice reference
		{Number: "INC-2024-002", Date: "10-02-2024", VehicleID: "B"},
		{Number: "INC-2023-001", Date: "2023-12-30", Vehicle: &model.Vehicle{ID: "C"}},
		// nothing resolvable anywhere
		{Number: "INC-2023-002", Date: "2023-12-31"},
	}

	counts := UsageCounts(invoices, nil)
	assert.Equal(t, map[string]int{"A": 2, "B": 2, "C": 1}, counts)

	var total int
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 5, total, "one increment per resolvable line item")

	assert.Equal(t, map[string]int{"A": 2, "B": 2}, UsageCounts(invoices, []string{"2024"}))
	assert.Equal(t, map[string]int{"C": 1}, UsageCounts(invoices, []string{"2023"}))
	assert.Empty(t, UsageCounts(invoices, []string{"2019"}))
}

func TestRankVehicles(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "1", Name: "Fuso"},
		{ID: "2", Name: "colt diesel"},
		{ID: "3", Name: "Hino"},
		{ID: "4", Name: "Avanza"},
	}
	counts := map[string]int{"1": 2, "2": 5, "3": 2}

	ranked := RankVehicles(vehicles, counts)
	require.Len(t, ranked, 4)

	names := make([]string, len(ranked))
	for i, v := range ranked {
		names[i] = v.Vehicle.Name
	}
	assert.Equal(t, []string{"colt diesel", "Fuso", "Hino", "Avanza"}, names)
	assert.Equal(t, 0, ranked[3].UsedCount, "missing count defaults to zero")
	assert.Equal(t, 9, TotalUsage(ranked))

	// input is not reordered
	assert.Equal(t, "Fuso", vehicles[0].Name)
}

func TestLeast(t *testing.T) {
	ranked := RankVehicles([]model.Vehicle{
		{ID: "1", Name: "Canter"},
		{ID: "2", Name: "Box"},
		{ID: "3", Name: "Dutro"},
	}, map[string]int{"3": 4})

	least, ok := Least(ranked)
	require.True(t, ok)
	assert.Equal(t, "Box", least.Vehicle.Name)

	_, ok = Least(nil)
	assert.False(t, ok)
}

func TestScheduleEvents(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: "7", Name: "Hino 500", Plate: "B 9000 XY"},
		{ID: "8", Plate: "L 1111 ZZ"},
	}
	invoices := []model.Invoice{
		{
			Number:    "INC-2024-010",
			Customer:  "PT Maju",
			StartDate: "01-03-2024",
			EndDate:   "2024-03-04",
			Items: []model.LineItem{
				// own start, inherits the invoice end
				{VehicleID: "7", StartDate: "2024-03-02"},
				// embedded vehicle without a label falls back to the lookup
				{Vehicle: &model.Vehicle{ID: "8"}, EndDate: "2024-13-40"},
			},
		},
		{Number: "INC-2024-011", Customer: "CV Jaya", VehicleID: "99", EndDate: "2024-05-01T08:00:00Z"},
		{Number: "INC-2024-012", Customer: "CV Kosong"},
	}

	events := ScheduleEvents(invoices, vehicles)
	assert.Equal(t, []model.ScheduleEvent{
		{Kind: model.EventDeparture, Date: "2024-03-02", VehicleLabel: "Hino 500 (B 9000 XY)", VehicleID: "7", InvoiceNumber: "INC-2024-010", Customer: "PT Maju"},
		{Kind: model.EventArrival, Date: "2024-03-04", VehicleLabel: "Hino 500 (B 9000 XY)", VehicleID: "7", InvoiceNumber: "INC-2024-010", Customer: "PT Maju"},
		{Kind: model.EventDeparture, Date: "2024-03-01", VehicleLabel: "L 1111 ZZ", VehicleID: "8", InvoiceNumber: "INC-2024-010", Customer: "PT Maju"},
		{Kind: model.EventArrival, Date: "2024-05-01", VehicleLabel: "Armada #99", VehicleID: "99", InvoiceNumber: "INC-2024-011", Customer: "CV Jaya"},
	}, events)

	// every emitted date is canonical
	for _, ev := range events {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, ev.Date)
	}
}

func TestFilterAndSortEvents(t *testing.T) {
	events := []model.ScheduleEvent{
		{Kind: model.EventDeparture, Date: "2024-03-01", VehicleID: "1"},
		{Kind: model.EventArrival, Date: "2023-06-01", VehicleID: "2"},
		{Kind: model.EventDeparture, Date: "2024-01-15", VehicleID: "2"},
	}

	deps := FilterEvents(events, []model.EventKind{model.EventDeparture}, nil, nil)
	assert.Len(t, deps, 2)

	in2024 := FilterEvents(events, nil, []string{"2"}, []string{"2024"})
	require.Len(t, in2024, 1)
	assert.Equal(t, "2024-01-15", in2024[0].Date)

	desc := SortEvents(events, false)
	assert.Equal(t, "2024-03-01", desc[0].Date)
	asc := SortEvents(events, true)
	assert.Equal(t, "2023-06-01", asc[0].Date)
	assert.Equal(t, "2024-03-01", events[0].Date, "input left untouched")
}

func TestPickLargest(t *testing.T) {
	list := []model.Transaction{
		{No: "INC-2024-001", Date: "2024-01-01", Total: decimal.NewFromInt(500)},
		{No: "INC-2024-002", Date: "2024-02-01", Total: decimal.NewFromInt(900)},
		{No: "INC-2023-009", Date: "2023-12-01", Total: decimal.NewFromInt(900)},
		{No: "INC-2024-003", Date: "2024-03-01", Total: decimal.NewFromInt(100)},
	}

	best, ok := PickLargest(list)
	require.True(t, ok)
	assert.Equal(t, "INC-2024-002", best.No, "equal totals resolve to the later date")

	// order of the input must not matter
	reversed := []model.Transaction{list[3], list[2], list[1], list[0]}
	best, ok = PickLargest(reversed)
	require.True(t, ok)
	assert.Equal(t, "INC-2024-002", best.No)

	_, ok = PickLargest(nil)
	assert.False(t, ok)
}

func TestSumAndFilter(t *testing.T) {
	list := []model.Transaction{
		{Date: "2023-05-01", Total: decimal.NewFromInt(2_000_000)},
		{Date: "2023-08-01", Total: decimal.NewFromInt(3_000_000)},
		{Date: "2024-01-01", Total: decimal.NewFromInt(7_000_000)},
		{Date: "", Total: decimal.NewFromInt(1)},
	}

	assert.True(t, decimal.NewFromInt(5_000_000).Equal(SumTotal(list, "2023")))
	assert.True(t, decimal.NewFromInt(12_000_001).Equal(SumTotal(list, "")))
	assert.Len(t, FilterByYears(list, []string{"2023"}), 2)
	assert.Len(t, FilterByYears(list, nil), 4)

	sorted := SortByDate(list)
	assert.Equal(t, "2024-01-01", sorted[0].Date)
	assert.Equal(t, "", sorted[3].Date)
}

func TestLedger(t *testing.T) {
	ledger := BuildLedger(
		[]model.Invoice{{Number: "INC-2024-001", Date: "05-01-2024", Total: decimal.NewFromInt(10)}},
		[]model.Expense{{Number: "EXP-2024-001", Date: "2024-01-06", Total: decimal.NewFromInt(4)}},
	)

	require.Len(t, ledger.Income, 1)
	assert.Equal(t, model.Transaction{
		Type:        model.TransactionIncome,
		No:          "INC-2024-001",
		Name:        "-",
		Date:        "2024-01-05",
		DisplayDate: "05-01-2024",
		Total:       decimal.NewFromInt(10),
	}, ledger.Income[0])
	assert.Equal(t, "-", ledger.Expense[0].Name)
	assert.Len(t, ledger.Select(true, true), 2)
	assert.Equal(t, model.TransactionExpense, ledger.Select(false, true)[0].Type)

	found, ok := FindByNumber(ledger.Select(true, true), "exp 2024 001")
	require.True(t, ok)
	assert.Equal(t, "EXP-2024-001", found.No)
}
