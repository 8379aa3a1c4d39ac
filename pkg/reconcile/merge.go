// Package reconcile combines newly transformed inventory records with the
// rolling historical base. It owns the single conflict-resolution rule of
// the pipeline: latest-ingested-wins on the dedup key, after discarding
// history for any count date the new batch supersedes, then a rolling
// retention window anchored on the data's own maximum date.
package reconcile

import (
	"sort"
	"time"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

// DefaultWindowMonths is the retention window of the consolidated base.
const DefaultWindowMonths = 12

// Stats describes what a merge did, for logs and the run report.
type Stats struct {
	NewRecords        int  `json:"new_records"`
	HistoryRecords    int  `json:"history_records"`
	HistorySuperseded int  `json:"history_superseded"`
	DuplicatesDropped int  `json:"duplicates_dropped"`
	OutsideWindow     int  `json:"outside_window"`
	RowIDInKey        bool `json:"row_id_in_key"`
	Final             int  `json:"final"`
}

// Merger merges new batches against history.
type Merger struct {
	months int
}

// Option configures a Merger.
type Option func(*Merger)

// WithWindowMonths overrides the retention window length.
func WithWindowMonths(months int) Option {
	return func(m *Merger) { m.months = months }
}

// New creates a Merger with the default 12-month window.
func New(opts ...Option) *Merger {
	m := &Merger{months: DefaultWindowMonths}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge combines a new batch with historical records and returns the
// consolidated, windowed base. An empty new batch is a caller error: the
// orchestrator must treat "no files processed" as a terminal state and
// never reach the merge with zero new rows.
func (m *Merger) Merge(newRecords, history []inventory.Record) ([]inventory.Record, Stats, error) {
	stats := Stats{NewRecords: len(newRecords), HistoryRecords: len(history)}
	if len(newRecords) == 0 {
		return nil, stats, errors.NewMergeError("input", errors.ErrEmptyBatch)
	}

	// A re-processed day supersedes any prior ingestion for that date.
	newDates := make(map[time.Time]bool, len(newRecords))
	for _, rec := range newRecords {
		newDates[inventory.Day(rec.CountDate)] = true
	}

	all := make([]inventory.Record, 0, len(history)+len(newRecords))
	for _, rec := range history {
		if newDates[inventory.Day(rec.CountDate)] {
			stats.HistorySuperseded++
			continue
		}
		all = append(all, rec)
	}
	all = append(all, newRecords...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].IngestedAt.Before(all[j].IngestedAt)
	})

	// The row id joins the key only when this deployment's data carries
	// one, mirroring the column-level presence check of the source data.
	stats.RowIDInKey = anyRowID(all)

	deduped := dedupKeepLast(all, stats.RowIDInKey)
	stats.DuplicatesDropped = len(all) - len(deduped)

	final := m.window(deduped)
	stats.OutsideWindow = len(deduped) - len(final)
	stats.Final = len(final)
	return final, stats, nil
}

// dedupKeepLast drops duplicate keys keeping the last occurrence of the
// timestamp-ascending input, so the survivor is the latest-ingested
// record. Relative order of survivors is preserved.
func dedupKeepLast(records []inventory.Record, withRowID bool) []inventory.Record {
	last := make(map[inventory.Key]int, len(records))
	for i, rec := range records {
		last[rec.Key(withRowID)] = i
	}

	out := make([]inventory.Record, 0, len(last))
	for i, rec := range records {
		if last[rec.Key(withRowID)] == i {
			out = append(out, rec)
		}
	}
	return out
}

// window retains records within m.months calendar months of the set's
// own maximum count date, inclusive of the lower bound. Anchoring on the
// data rather than wall-clock time keeps reruns deterministic.
func (m *Merger) window(records []inventory.Record) []inventory.Record {
	if len(records) == 0 {
		return records
	}

	var ref time.Time
	for _, rec := range records {
		if rec.CountDate.After(ref) {
			ref = rec.CountDate
		}
	}
	cutoff := Cutoff(ref, m.months)

	out := make([]inventory.Record, 0, len(records))
	for _, rec := range records {
		if !inventory.Day(rec.CountDate).Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

// Cutoff returns the inclusive lower bound of the retention window for a
// reference date: the calendar date months earlier.
func Cutoff(ref time.Time, months int) time.Time {
	return inventory.Day(ref).AddDate(0, -months, 0)
}

func anyRowID(records []inventory.Record) bool {
	for _, rec := range records {
		if rec.RowID != "" {
			return true
		}
	}
	return false
}
