package parse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "l1234xx", NormalizeKey("L 1234 XX"))
	assert.Equal(t, "inc2024001", NormalizeKey("INC-2024-001"))
	assert.Equal(t, "cekl1234xxdong", NormalizeKey("cek L1234XX dong!"))
	assert.Equal(t, "", NormalizeKey(" - "))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hino", "300"}, Tokenize("Hino 300"))
	assert.Equal(t, []string{"truk", "engkel", "b1"}, Tokenize("Truk-Engkel / B1 x"))
	assert.Empty(t, Tokenize("a b c"))
}

func TestExtractYears(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "previous year phrase", text: "tahun lalu", expected: []string{"2024"}},
		{name: "literal years in order", text: "proyek 2023 dan 2024", expected: []string{"2023", "2024"}},
		{name: "duplicates dropped", text: "2024, 2023, 2024", expected: []string{"2024", "2023"}},
		{name: "current year phrase", text: "total tahun ini", expected: []string{"2025"}},
		{name: "relative appended after literal", text: "2021 dan tahun sebelumnya", expected: []string{"2021", "2024"}},
		{name: "relative skipped when present", text: "2024 atau tahun lalu", expected: []string{"2024"}},
		{name: "both relatives", text: "tahun ini vs tahun lalu", expected: []string{"2024", "2025"}},
		{name: "year inside item number", text: "detail INC-2023-001", expected: []string{"2023"}},
		{name: "plate digits ignored", text: "cek B2024AB", expected: nil},
		{name: "out of range", text: "tahun 1850 dan 2150", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractYears(tc.text, now))
		})
	}
}

func TestVehicleStatus(t *testing.T) {
	assert.Equal(t, "Ready", VehicleStatus("ready"))
	assert.Equal(t, "Ready", VehicleStatus("READY"))
	assert.Equal(t, "Ready", VehicleStatus("Not Ready"))
	assert.Equal(t, "Full", VehicleStatus("Full"))
	assert.Equal(t, "Full", VehicleStatus(""))
	assert.Equal(t, "Full", VehicleStatus("maintenance"))
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 5.000.000", FormatRupiah(decimal.NewFromInt(5000000)))
	assert.Equal(t, "Rp 0", FormatRupiah(decimal.Zero))
	assert.Equal(t, "Rp 999", FormatRupiah(decimal.NewFromInt(999)))
	assert.Equal(t, "Rp 1.235", FormatRupiah(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "Rp -250.000", FormatRupiah(decimal.NewFromInt(-250000)))
}
