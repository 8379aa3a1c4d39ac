package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

func fixedNow() time.Time {
	return time.Date(2025, 11, 20, 15, 30, 0, 0, time.UTC)
}

func TestFileDateISO(t *testing.T) {
	d := inventory.FileDate("inv_2025-01-05.xlsx", inventory.DateFormatISO, fixedNow)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), d)
}

func TestFileDateISOMissingFallsBackToToday(t *testing.T) {
	d := inventory.FileDate("contagem_loja.csv", inventory.DateFormatISO, fixedNow)
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), d)
}

func TestFileDateCompact(t *testing.T) {
	// Contagem031125 -> day 03, month 11, year 2025.
	d := inventory.FileDate("Contagem031125.xlsx", inventory.DateFormatCompact, fixedNow)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), d)
}

func TestFileDateCompactInvalidDayFallsBackToToday(t *testing.T) {
	d := inventory.FileDate("Contagem321125.csv", inventory.DateFormatCompact, fixedNow)
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), d)
}

func TestFileStore(t *testing.T) {
	assert.Equal(t, "SP-01", inventory.FileStore("Contagem031125_store-sp-01.csv"))
	assert.Equal(t, "NORTE_2", inventory.FileStore("inv STORE-norte_2 final.csv"))
	assert.Equal(t, "BV", inventory.FileStore("contagem_loja-bv.csv"), "legacy loja- token")
	assert.Empty(t, inventory.FileStore("inv_2025-01-05.csv"))
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1.234,56", 1234.56, true},
		{"1234,56", 1234.56, true},
		{"1234.56", 1234.56, true},
		{"1.234.567,89", 1234567.89, true},
		{"  42 ", 42, true},
		{"-3,5", -3.5, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"None", 0, false},
		{"nan", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := inventory.ParseDecimal(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestRowDateDayFirst(t *testing.T) {
	d, ok := inventory.RowDate("05/01/2025")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), d)

	d, ok = inventory.RowDate("2025-06-05")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), d)

	_, ok = inventory.RowDate("sem data")
	assert.False(t, ok)

	_, ok = inventory.RowDate("")
	assert.False(t, ok)
}
