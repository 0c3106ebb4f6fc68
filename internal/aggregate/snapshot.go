package aggregate

import "fleet-assistant-backend/internal/model"

// Fleet is the cached fleet-usage view. It is built once per refresh and
// never mutated afterwards.
type Fleet struct {
	Vehicles []model.Vehicle
	Invoices []model.Invoice
	Ranked   []VehicleUsage
	Events   []model.ScheduleEvent
}

// BuildFleet derives usage ranking and schedule events from raw records.
func BuildFleet(vehicles []model.Vehicle, invoices []model.Invoice) *Fleet {
	return &Fleet{
		Vehicles: vehicles,
		Invoices: invoices,
		Ranked:   RankVehicles(vehicles, UsageCounts(invoices, nil)),
		Events:   ScheduleEvents(invoices, vehicles),
	}
}

// RankedForYears ranks vehicles counting only invoices from the given years.
func (f *Fleet) RankedForYears(years []string) []VehicleUsage {
	if len(years) == 0 {
		return f.Ranked
	}
	return RankVehicles(f.Vehicles, UsageCounts(f.Invoices, years))
}

// Ledger is the cached income/expense view.
type Ledger struct {
	Income  []model.Transaction
	Expense []model.Transaction
}

// BuildLedger flattens invoices and expenses.
func BuildLedger(invoices []model.Invoice, expenses []model.Expense) *Ledger {
	return &Ledger{
		Income:  IncomeTransactions(invoices),
		Expense: ExpenseTransactions(expenses),
	}
}

// Select returns the entries of the requested types, income first.
func (l *Ledger) Select(income, expense bool) []model.Transaction {
	var out []model.Transaction
	if income {
		out = append(out, l.Income...)
	}
	if expense {
		out = append(out, l.Expense...)
	}
	return out
}
