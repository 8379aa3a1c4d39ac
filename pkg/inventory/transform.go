package inventory

import (
	"math"
	"time"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/tables"
)

// Report is the audit trail of one file's transformation.
type Report struct {
	RowsIn        int `json:"rows_in"`
	RowsOut       int `json:"rows_out"`
	DateOverrides int `json:"date_overrides"`
	Inconsistent  int `json:"inconsistent"`
}

// Transformer converts one raw source table into canonical records.
type Transformer struct {
	normalizer *tables.Normalizer
	now        func() time.Time
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithNormalizer overrides the default column normalizer.
func WithNormalizer(n *tables.Normalizer) TransformerOption {
	return func(t *Transformer) { t.normalizer = n }
}

// WithClock overrides the ingestion-timestamp clock, for tests.
func WithClock(now func() time.Time) TransformerOption {
	return func(t *Transformer) { t.now = now }
}

// NewTransformer creates a Transformer with the inventory normalizer.
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := &Transformer{
		normalizer: NewNormalizer(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform normalizes the table's columns, coerces the quantity fields,
// recomputes the discrepancy and projects each row onto the canonical
// schema. countDate and storeID come from the file name; a parseable
// per-row count_date column overrides the file date. Row count is
// preserved: rows are never dropped here.
//
// A *errors.SchemaError is returned when qty_system and qty_physical are
// both absent after normalization. That is a hard stop for this file
// only, not for the whole run.
func (tr *Transformer) Transform(t *tables.Table, file string, countDate time.Time, storeID string) ([]Record, *Report, error) {
	nt := tr.normalizer.Normalize(t)

	if !nt.HasColumn(ColQtySystem) && !nt.HasColumn(ColQtyPhysical) {
		return nil, nil, errors.NewSchemaError(file, []string{ColQtySystem, ColQtyPhysical}, nt.Columns)
	}

	report := &Report{RowsIn: t.Len()}
	hasSourceDiff := nt.HasColumn(ColQtyDiff)
	hasValueDiff := nt.HasColumn(ColValueDiff)
	hasRowDate := nt.HasColumn(ColCountDate)
	ingestedAt := tr.now()
	fileDate := Day(countDate)

	records := make([]Record, 0, nt.Len())
	for _, row := range nt.Rows {
		rec := Record{
			CountDate:   fileDate,
			RowID:       row[ColRowID],
			StoreID:     storeID,
			ItemID:      row[ColItemID],
			Description: row[ColDescription],
			Status:      row[ColStatus],
			Reason:      row[ColReason],
			IngestedAt:  ingestedAt,
		}

		if hasRowDate {
			if d, ok := RowDate(row[ColCountDate]); ok {
				rec.CountDate = d
				report.DateOverrides++
			}
		}

		rec.QtySystem, _ = ParseDecimal(row[ColQtySystem])
		rec.QtyPhysical, _ = ParseDecimal(row[ColQtyPhysical])
		rec.QtyDiff = rec.QtyPhysical - rec.QtySystem

		if hasSourceDiff {
			if src, ok := ParseDecimal(row[ColQtyDiff]); ok && round2(src) != round2(rec.QtyDiff) {
				rec.Inconsistent = true
				report.Inconsistent++
			}
		}

		if hasValueDiff {
			if v, ok := ParseDecimal(row[ColValueDiff]); ok {
				rec.ValueDiff = &v
			}
		}

		records = append(records, rec)
	}

	report.RowsOut = len(records)
	return records, report, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
