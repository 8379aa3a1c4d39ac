// Package output publishes the consolidated base to its destinations:
// a local CSV snapshot and a spreadsheet-like destination that is
// cleared fully before fresh values are written. Rendering keeps null
// distinguishable from zero and from a missing cell: dates become
// ISO-8601 strings, nullable/NaN/Infinity numerics become nil.
package output

import (
	"math"
	"time"

	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02 15:04:05"

	// StampColumn is appended to spreadsheet publishes so dashboard
	// readers can see when the base was last rewritten.
	StampColumn = "_last_pipeline_update"
)

// Values renders records for a spreadsheet destination: a header row of
// canonical column names plus the update-stamp column, then one row per
// record.
func Values(records []inventory.Record, stamp time.Time) [][]any {
	header := make([]any, 0, len(inventory.Columns())+1)
	for _, col := range inventory.Columns() {
		header = append(header, col)
	}
	header = append(header, StampColumn)

	stampCell := stamp.Format(stampLayout)
	rows := make([][]any, 0, len(records)+1)
	rows = append(rows, header)
	for _, rec := range records {
		rows = append(rows, []any{
			rec.CountDate.Format(dateLayout),
			textCell(rec.RowID),
			textCell(rec.StoreID),
			textCell(rec.ItemID),
			textCell(rec.Description),
			textCell(rec.Status),
			floatCell(rec.QtySystem),
			floatCell(rec.QtyPhysical),
			floatCell(rec.QtyDiff),
			rec.Inconsistent,
			nullableCell(rec.ValueDiff),
			textCell(rec.Reason),
			rec.IngestedAt.UTC().Format(time.RFC3339),
			floatCell(rec.AbsDiff),
			nullableCell(rec.Accuracy),
			stampCell,
		})
	}
	return rows
}

func textCell(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatCell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func nullableCell(v *float64) any {
	if v == nil {
		return nil
	}
	return floatCell(*v)
}
