package inventory

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat selects the file-name date convention for a deployment.
// The two conventions in the field are mutually ambiguous, so the choice
// is explicit configuration; there is no dual-mode guessing.
type DateFormat string

const (
	// DateFormatISO searches the file name for a YYYY-MM-DD substring.
	DateFormatISO DateFormat = "iso"

	// DateFormatCompact searches for a DDMMYY digit run, as in
	// Contagem031125.xlsx -> 2025-11-03.
	DateFormatCompact DateFormat = "compact"
)

// IsValid reports whether the format is one of the defined conventions.
func (f DateFormat) IsValid() bool {
	return f == DateFormatISO || f == DateFormatCompact
}

var (
	isoDatePattern     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	compactDatePattern = regexp.MustCompile(`(\d{2})(\d{2})(\d{2})`)
	storePattern       = regexp.MustCompile(`(?i)(?:store|loja)-([A-Za-z0-9_-]+)`)
)

// FileDate extracts the count date from a source file name using the
// given convention. A missing or invalid date falls back to today; the
// result is always truncated to a calendar date.
func FileDate(name string, format DateFormat, now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}

	switch format {
	case DateFormatCompact:
		if m := compactDatePattern.FindStringSubmatch(name); m != nil {
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			year := 2000 + mustAtoi(m[3])
			if d, ok := validDate(year, month, day); ok {
				return d
			}
		}
	default: // DateFormatISO
		if m := isoDatePattern.FindString(name); m != "" {
			if d, err := time.Parse("2006-01-02", m); err == nil {
				return Day(d)
			}
		}
	}
	return Day(now())
}

// FileStore extracts the optional store identifier from a source file
// name. Absence is not an error; the empty string means no store.
func FileStore(name string) string {
	if m := storePattern.FindStringSubmatch(name); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// rowDateLayouts are the accepted spellings for a per-row count_date
// column, day-first where ambiguous.
var rowDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
}

// RowDate parses a count_date cell, day-first. ok=false means the cell
// does not carry a usable date and the caller should fall back to the
// file-name date.
func RowDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range rowDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return Day(d), true
		}
	}
	return time.Time{}, false
}

// ParseDecimal coerces a locale-formatted quantity to a float. When the
// text contains both "." and ",", "." is a thousands separator and ","
// the decimal separator; a lone "," is the decimal separator. Empty or
// unparseable text yields ok=false (null), never an error.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "nan", "null", "-":
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// validDate builds a calendar date, rejecting impossible combinations
// such as day 32 (time.Date would silently roll them over).
func validDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
