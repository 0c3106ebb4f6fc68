// Package reply renders resolved answers into fixed Indonesian sentences.
package reply

import (
	"fmt"
	"strings"
)

// MaxLines caps schedule and transaction listings.
const MaxLines = 20

// Fixed apologies returned instead of surfacing fetch errors.
const (
	FleetUnavailable       = "Maaf, saya belum bisa mengambil data armada saat ini."
	TransactionUnavailable = "Maaf, saya belum bisa mengambil data transaksi saat ini."
	RemoteUnavailable      = "Maaf, asisten sedang tidak dapat dihubungi. Silakan coba lagi nanti."
)

// Scope renders the " untuk X tahun Y" suffix used in headers. Either part
// may be empty.
func Scope(subject string, years []string) string {
	var b strings.Builder
	if subject != "" {
		b.WriteString(" untuk ")
		b.WriteString(subject)
	}
	if len(years) > 0 {
		b.WriteString(" tahun ")
		b.WriteString(strings.Join(years, ", "))
	}
	return b.String()
}

// capped writes numbered lines, at most MaxLines of them, followed by a
// "... dan k {noun} lainnya." remainder line.
func capped(b *strings.Builder, n int, noun string, line func(i int) string) {
	shown := n
	if shown > MaxLines {
		shown = MaxLines
	}
	for i := 0; i < shown; i++ {
		b.WriteString("\n")
		b.WriteString(line(i))
	}
	if n > shown {
		fmt.Fprintf(b, "\n... dan %d %s lainnya.", n-shown, noun)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
