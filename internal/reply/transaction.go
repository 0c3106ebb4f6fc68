package reply

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
)

// Kind is the lowercase noun for a transaction type: pemasukan or pengeluaran.
func Kind(t model.TransactionType) string {
	if t == model.TransactionExpense {
		return "pengeluaran"
	}
	return "pemasukan"
}

// SelectionKind names a selection of one or both types.
func SelectionKind(income, expense bool) string {
	switch {
	case income && !expense:
		return "pemasukan"
	case expense && !income:
		return "pengeluaran"
	default:
		return "transaksi"
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NoTransactions is the empty-result sentence for a kind and scope.
func NoTransactions(kind, scope string) string {
	return fmt.Sprintf("Tidak ada data %s%s.", kind, scope)
}

// NotFound answers a lookup for an unknown transaction number.
func NotFound(number string) string {
	return fmt.Sprintf("Transaksi dengan nomor %s tidak ditemukan.", strings.ToUpper(number))
}

// TransactionDetail renders the key-value block of one entry.
func TransactionDetail(t model.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Detail %s:", Kind(t.Type))
	fmt.Fprintf(&b, "\nNo.: %s", orDash(t.No))
	if t.Type == model.TransactionIncome {
		fmt.Fprintf(&b, "\nNama: %s", orDash(t.Name))
	}
	fmt.Fprintf(&b, "\nTanggal: %s", orDash(t.DisplayDate))
	fmt.Fprintf(&b, "\nStatus: %s", orDash(t.Status))
	fmt.Fprintf(&b, "\nTotal: %s", parse.FormatRupiah(t.Total))
	if t.Type == model.TransactionIncome {
		fmt.Fprintf(&b, "\nDiterima oleh: %s", orDash(t.RecordedBy))
	} else {
		fmt.Fprintf(&b, "\nDicatat oleh: %s", orDash(t.RecordedBy))
	}
	return b.String()
}

// DetailPrompt asks for a transaction number, suggesting recent ones.
func DetailPrompt(recent []model.Transaction) string {
	if len(recent) == 0 {
		return NoTransactions("transaksi", "")
	}
	numbers := make([]string, 0, len(recent))
	for _, t := range recent {
		numbers = append(numbers, t.No)
	}
	return "Sebutkan nomor transaksi yang ingin dilihat detailnya, misalnya: " + strings.Join(numbers, ", ") + "."
}

// Largest renders the biggest entry of one type.
func Largest(t model.Transaction, scope string) string {
	subject := orDash(t.No)
	if t.Name != "" && t.Name != "-" {
		subject += " - " + t.Name
	}
	return fmt.Sprintf("%s terbesar%s: %s, tanggal %s, sebesar %s.",
		title(Kind(t.Type)), scope, subject, orDash(t.DisplayDate), parse.FormatRupiah(t.Total))
}

// YearTotal is one year's slice of a total.
type YearTotal struct {
	Year  string
	Sum   decimal.Decimal
	Count int
}

// Total renders a sum for one kind. With more than one year the per-year
// breakdown follows the combined line.
func Total(kind, scope string, sum decimal.Decimal, count int, perYear []YearTotal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total %s%s: %s (%d transaksi)", kind, scope, parse.FormatRupiah(sum), count)
	if len(perYear) > 1 {
		for _, y := range perYear {
			fmt.Fprintf(&b, "\n- Tahun %s: %s (%d transaksi)", y.Year, parse.FormatRupiah(y.Sum), y.Count)
		}
	}
	return b.String()
}

// Difference renders income minus expense.
func Difference(scope string, income, expense decimal.Decimal) string {
	return fmt.Sprintf("Selisih (pemasukan - pengeluaran)%s: %s", scope, parse.FormatRupiah(income.Sub(expense)))
}

// TransactionListing renders an already sorted list.
func TransactionListing(kind, scope string, list []model.Transaction) string {
	if len(list) == 0 {
		return NoTransactions(kind, scope)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Daftar %s%s (%d):", kind, scope, len(list))
	capped(&b, len(list), "transaksi", func(i int) string {
		return TransactionLine(i+1, list[i])
	})
	return b.String()
}

// TransactionLine is one numbered listing row.
func TransactionLine(i int, t model.Transaction) string {
	return fmt.Sprintf("%d. [%s] %s | %s | %s | %s | %s",
		i, title(Kind(t.Type)), orDash(t.No), orDash(t.DisplayDate), orDash(t.Name),
		parse.FormatRupiah(t.Total), orDash(t.Status))
}

// Recent returns up to n entries, newest first.
func Recent(list []model.Transaction, n int) []model.Transaction {
	sorted := aggregate.SortByDate(list)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
