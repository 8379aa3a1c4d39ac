package inventory

import (
	"time"
)

// Record is one canonical inventory-count row. String fields use the empty
// string for "absent from source"; nullable numeric fields use pointers so
// that null stays distinguishable from zero all the way to the output.
type Record struct {
	CountDate   time.Time `json:"count_date"`
	RowID       string    `json:"row_id,omitempty"`
	StoreID     string    `json:"store_id,omitempty"`
	ItemID      string    `json:"item_id"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Reason      string    `json:"reason,omitempty"`

	// QtySystem is the ERP (system of record) quantity; QtyPhysical the
	// physically counted WMS quantity. QtyDiff is always recomputed as
	// QtyPhysical - QtySystem and never trusted from source.
	QtySystem   float64 `json:"qty_system"`
	QtyPhysical float64 `json:"qty_physical"`
	QtyDiff     float64 `json:"qty_diff"`

	// Inconsistent flags a source-provided difference that disagrees with
	// the recomputed one at 2-decimal precision. Informational only.
	Inconsistent bool     `json:"inconsistency_flag"`
	ValueDiff    *float64 `json:"value_diff,omitempty"`

	// IngestedAt is assigned at transform time and used only as the
	// tie-breaker for deduplication, never for windowing.
	IngestedAt time.Time `json:"ingestion_timestamp"`

	// Derived after merge.
	AbsDiff  float64  `json:"abs_diff"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

// Key identifies a record for deduplication. The row id participates only
// when the deployment's source data carries one.
type Key struct {
	CountDate time.Time
	RowID     string
	StoreID   string
	ItemID    string
}

// Key returns the record's dedup key. withRowID selects the extended key
// convention; it must be applied consistently across one merged set.
func (r Record) Key(withRowID bool) Key {
	k := Key{
		CountDate: r.CountDate,
		StoreID:   r.StoreID,
		ItemID:    r.ItemID,
	}
	if withRowID {
		k.RowID = r.RowID
	}
	return k
}

// Day truncates a timestamp to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
