package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
)

// IncomeTransactions flattens invoices into ledger entries.
func IncomeTransactions(invoices []model.Invoice) []model.Transaction {
	out := make([]model.Transaction, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, model.Transaction{
			Type:        model.TransactionIncome,
			No:          inv.Number,
			Name:        orDash(inv.Customer),
			Date:        parse.NormalizeDate(inv.Date),
			DisplayDate: parse.ToDisplayDate(inv.Date),
			Total:       inv.Total,
			Status:      inv.Status,
			RecordedBy:  inv.RecordedBy,
		})
	}
	return out
}

// ExpenseTransactions flattens expenses into ledger entries.
func ExpenseTransactions(expenses []model.Expense) []model.Transaction {
	out := make([]model.Transaction, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, model.Transaction{
			Type:        model.TransactionExpense,
			No:          e.Number,
			Name:        "-",
			Date:        parse.NormalizeDate(e.Date),
			DisplayDate: parse.ToDisplayDate(e.Date),
			Total:       e.Total,
			Status:      e.Status,
			RecordedBy:  e.RecordedBy,
		})
	}
	return out
}

// PickLargest returns the entry with the highest total. On equal totals the
// more recent date wins.
func PickLargest(list []model.Transaction) (model.Transaction, bool) {
	best := -1
	for i := range list {
		if best < 0 {
			best = i
			continue
		}
		c := list[i].Total.Cmp(list[best].Total)
		if c > 0 || (c == 0 && parse.CompareDates(list[i].Date, list[best].Date) > 0) {
			best = i
		}
	}
	if best < 0 {
		return model.Transaction{}, false
	}
	return list[best], true
}

// SumTotal adds up totals, restricted to one year when year is not empty.
func SumTotal(list []model.Transaction, year string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range list {
		if year != "" && !parse.DateInYear(t.Date, year) {
			continue
		}
		sum = sum.Add(t.Total)
	}
	return sum
}

// FilterByYears returns the entries dated in one of years; no years keeps all.
func FilterByYears(list []model.Transaction, years []string) []model.Transaction {
	out := make([]model.Transaction, 0, len(list))
	for _, t := range list {
		if parse.DateInYears(t.Date, years) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDate returns a copy ordered newest first.
func SortByDate(list []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return parse.CompareDates(out[i].Date, out[j].Date) > 0
	})
	return out
}

// FindByNumber looks an entry up by its number, ignoring case and punctuation.
func FindByNumber(list []model.Transaction, number string) (model.Transaction, bool) {
	key := parse.NormalizeKey(number)
	if key == "" {
		return model.Transaction{}, false
	}
	for _, t := range list {
		if parse.NormalizeKey(t.No) == key {
			return t, true
		}
	}
	return model.Transaction{}, false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
