// Package history persists the rolling consolidated base between runs.
// Two stores are provided: a CSV file (which doubles as the local
// snapshot of the consolidated base) and a sqlite database. Both load an
// empty baseline when no prior history exists, and both overwrite
// wholesale on save.
package history

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

const (
	dateLayout = "2006-01-02"
	tsLayout   = time.RFC3339Nano
)

// Encode renders records as CSV rows under the canonical header. Null,
// NaN and ±Inf render as the empty cell so they stay distinguishable
// from zero.
func Encode(records []inventory.Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, inventory.Columns())
	for _, rec := range records {
		rows = append(rows, []string{
			rec.CountDate.Format(dateLayout),
			rec.RowID,
			rec.StoreID,
			rec.ItemID,
			rec.Description,
			rec.Status,
			formatFloat(rec.QtySystem),
			formatFloat(rec.QtyPhysical),
			formatFloat(rec.QtyDiff),
			strconv.FormatBool(rec.Inconsistent),
			formatNullable(rec.ValueDiff),
			rec.Reason,
			rec.IngestedAt.UTC().Format(tsLayout),
			formatFloat(rec.AbsDiff),
			formatNullable(rec.Accuracy),
		})
	}
	return rows
}

// Decode parses CSV rows (header first) back into records. Cells are
// matched by header name, so column reordering in a hand-edited history
// file is tolerated.
func Decode(rows [][]string) ([]inventory.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[name] = i
	}

	records := make([]inventory.Record, 0, len(rows)-1)
	for n, cells := range rows[1:] {
		cell := func(col string) string {
			if i, ok := index[col]; ok && i < len(cells) {
				return cells[i]
			}
			return ""
		}

		countDate, err := time.Parse(dateLayout, cell(inventory.ColCountDate))
		if err != nil {
			return nil, fmt.Errorf("history row %d: bad %s %q", n+1, inventory.ColCountDate, cell(inventory.ColCountDate))
		}

		rec := inventory.Record{
			CountDate:    inventory.Day(countDate),
			RowID:        cell(inventory.ColRowID),
			StoreID:      cell(inventory.ColStoreID),
			ItemID:       cell(inventory.ColItemID),
			Description:  cell(inventory.ColDescription),
			Status:       cell(inventory.ColStatus),
			Reason:       cell(inventory.ColReason),
			QtySystem:    parseFloat(cell(inventory.ColQtySystem)),
			QtyPhysical:  parseFloat(cell(inventory.ColQtyPhysical)),
			QtyDiff:      parseFloat(cell(inventory.ColQtyDiff)),
			Inconsistent: cell(inventory.ColInconsistent) == "true",
			ValueDiff:    parseNullable(cell(inventory.ColValueDiff)),
			AbsDiff:      parseFloat(cell(inventory.ColAbsDiff)),
			Accuracy:     parseNullable(cell(inventory.ColAccuracy)),
		}
		if ts, err := time.Parse(tsLayout, cell(inventory.ColIngestedAt)); err == nil {
			rec.IngestedAt = ts
		}
		records = append(records, rec)
	}
	return records, nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseNullable(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
