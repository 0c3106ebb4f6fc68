package resolver

import (
	"regexp"
	"strings"
	"time"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
)

// Keyword sets are matched as substrings of the lowercased utterance.
var (
	fleetKeywords   = []string{"armada", "kendaraan", "truk", "truck", "mobil", "fleet", "plat", "nopol"}
	invoiceHints    = []string{"invoice", "faktur", "pemasukan", "pengeluaran", "income", "expense", "transaksi", "tagihan", "biaya", "pembayaran"}
	usageKeywords   = []string{"penggunaan", "digunakan", "dipakai", "terpakai", "pemakaian", "sering", "jarang"}
	countKeywords   = []string{"berapa kali"}
	topKeywords     = []string{"paling sering", "terbanyak", "paling banyak", "tersering"}
	leastKeywords   = []string{"paling jarang", "tersedikit", "paling sedikit", "terjarang"}
	detailKeywords  = []string{"detail", "rincian", "info", "informasi", "spesifikasi"}
	listKeywords    = []string{"daftar", "list", "semua", "apa saja", "tampilkan", "lihat"}
	departKeywords  = []string{"berangkat", "keberangkatan", "departure"}
	arriveKeywords  = []string{"kedatangan", "sampai di", "datang", "arrival"}
	earliestKeyword = []string{"terawal", "paling awal", "pertama", "earliest"}

	incomeKeywords  = []string{"income", "pemasukan", "pendapatan", "invoice", "faktur", "penjualan", "omzet"}
	expenseKeywords = []string{"expense", "pengeluaran", "biaya", "belanja", "beban"}
	biggestKeywords = []string{"terbesar", "paling besar", "tertinggi", "paling tinggi", "termahal", "maksimal"}
	totalKeywords   = []string{"total", "jumlah", "berapa", "akumulasi"}
	txDetailWords   = []string{"detail", "rincian", "info"}
)

// "tiba" counts only as a whole word; "tiba-tiba" means suddenly.
var arriveWordRe = regexp.MustCompile(`(?:^|[^\p{L}-])tiba(?:nya)?(?:$|[^\p{L}-])`)

var transactionNumberRe = regexp.MustCompile(`(?i)\b(INC|EXP)-\d{4}-\d{3,}\b`)

// historyWindow is how many previous user turns can carry fleet context.
const historyWindow = 3

// FleetIntent holds the flags raised by a fleet utterance.
type FleetIntent struct {
	Usage     bool
	Count     bool
	Top       bool
	Least     bool
	Detail    bool
	List      bool
	Departure bool
	Arrival   bool
	Schedule  bool
	Earliest  bool
	Years     []string
	Inherited bool
}

func (f FleetIntent) hasFlag() bool {
	return f.Usage || f.Count || f.Top || f.Least || f.Detail || f.List || f.Schedule || len(f.Years) > 0
}

// ClassifyFleet decides whether text is a fleet question. Fleet context comes
// from a fleet keyword in text, or from one of the last three user turns when
// text carries no invoice or expense hint; inherited context only counts if
// text raises at least one flag.
func ClassifyFleet(text string, history []model.Turn, now time.Time) (FleetIntent, bool) {
	lower := strings.ToLower(text)

	direct := parse.ContainsAny(lower, fleetKeywords)
	inherited := !direct && !parse.ContainsAny(lower, invoiceHints) && recentFleetMention(history)
	if !direct && !inherited {
		return FleetIntent{}, false
	}

	intent := FleetIntent{
		Usage:     parse.ContainsAny(lower, usageKeywords),
		Count:     parse.ContainsAny(lower, countKeywords),
		Top:       parse.ContainsAny(lower, topKeywords),
		Least:     parse.ContainsAny(lower, leastKeywords),
		Detail:    parse.ContainsAny(lower, detailKeywords),
		List:      parse.ContainsAny(lower, listKeywords),
		Departure: parse.ContainsAny(lower, departKeywords),
		Arrival:   parse.ContainsAny(lower, arriveKeywords) || arriveWordRe.MatchString(lower),
		Earliest:  parse.ContainsAny(lower, earliestKeyword),
		Years:     parse.ExtractYears(text, now),
		Inherited: inherited,
	}
	intent.Schedule = intent.Departure || intent.Arrival || strings.Contains(lower, "jadwal")

	if inherited && !intent.hasFlag() {
		return FleetIntent{}, false
	}
	return intent, true
}

func recentFleetMention(history []model.Turn) bool {
	seen := 0
	for i := len(history) - 1; i >= 0 && seen < historyWindow; i-- {
		if history[i].Role != model.RoleUser {
			continue
		}
		seen++
		if parse.ContainsAny(strings.ToLower(history[i].Content), fleetKeywords) {
			return true
		}
	}
	return false
}

// TransactionIntent holds the flags raised by a ledger utterance.
type TransactionIntent struct {
	Income  bool
	Expense bool
	Detail  bool
	Biggest bool
	Total   bool
	Number  string
	Years   []string
}

// selection reports which ledger sides the question is about; naming neither
// or both means both.
func (t TransactionIntent) selection() (income, expense bool) {
	if t.Income != t.Expense {
		return t.Income, t.Expense
	}
	return true, true
}

// ClassifyTransaction decides whether text is a ledger question the rules can
// answer.
func ClassifyTransaction(text string, now time.Time) (TransactionIntent, bool) {
	lower := strings.ToLower(text)

	intent := TransactionIntent{
		Income:  parse.ContainsAny(lower, incomeKeywords),
		Expense: parse.ContainsAny(lower, expenseKeywords),
		Detail:  parse.ContainsAny(lower, txDetailWords),
		Biggest: parse.ContainsAny(lower, biggestKeywords),
		Total:   parse.ContainsAny(lower, totalKeywords),
		Number:  strings.ToUpper(transactionNumberRe.FindString(text)),
		Years:   parse.ExtractYears(text, now),
	}

	engaged := intent.Income || intent.Expense || strings.Contains(lower, "transaksi") ||
		intent.Number != "" || len(intent.Years) > 0
	answerable := intent.Detail || intent.Biggest || intent.Total || intent.Number != "" || len(intent.Years) > 0
	if !engaged || !answerable {
		return TransactionIntent{}, false
	}
	return intent, true
}
