package parse

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// rupiahFormat: "." thousands separator, "," decimal separator, zero decimals.
const rupiahFormat = "#.###,"

// FormatRupiah renders an amount as "Rp 1.234.567", rounded to whole rupiah.
func FormatRupiah(amount decimal.Decimal) string {
	return "Rp " + humanize.FormatInteger(rupiahFormat, int(amount.Round(0).IntPart()))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
