package history_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvpisos-datascience/inventariobvp/internal/history"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

func ptr(v float64) *float64 { return &v }

func sampleRecords() []inventory.Record {
	return []inventory.Record{
		{
			CountDate:    time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			RowID:        "42",
			StoreID:      "SP-01",
			ItemID:       "A",
			Description:  "parafuso 3mm",
			Status:       "ok",
			Reason:       "recontagem",
			QtySystem:    10,
			QtyPhysical:  8,
			QtyDiff:      -2,
			Inconsistent: true,
			ValueDiff:    ptr(12.5),
			IngestedAt:   time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC),
			AbsDiff:      2,
			Accuracy:     ptr(0.75),
		},
		{
			CountDate:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
			ItemID:      "B",
			QtySystem:   1,
			QtyPhysical: 1,
			IngestedAt:  time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
			Accuracy:    ptr(1),
		},
	}
}

func TestEncodeNullsAndNonFinites(t *testing.T) {
	records := []inventory.Record{{
		CountDate:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		ItemID:      "A",
		QtySystem:   math.NaN(),
		QtyPhysical: math.Inf(1),
		IngestedAt:  time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}}

	rows := history.Encode(records)
	require.Len(t, rows, 2)
	assert.Equal(t, inventory.Columns(), rows[0])

	cell := func(col string) string {
		for i, name := range rows[0] {
			if name == col {
				return rows[1][i]
			}
		}
		t.Fatalf("column %q not in header", col)
		return ""
	}

	assert.Equal(t, "2025-01-05", cell(inventory.ColCountDate))
	assert.Empty(t, cell(inventory.ColQtySystem), "NaN renders as empty cell")
	assert.Empty(t, cell(inventory.ColQtyPhysical), "Inf renders as empty cell")
	assert.Empty(t, cell(inventory.ColValueDiff), "nil renders as empty cell")
	assert.Empty(t, cell(inventory.ColAccuracy))
	assert.Equal(t, "0", cell(inventory.ColQtyDiff), "zero is a real value, not empty")
}

func TestDecodeToleratesReorderedColumns(t *testing.T) {
	rows := [][]string{
		{inventory.ColItemID, inventory.ColCountDate, inventory.ColQtyPhysical},
		{"A", "2025-01-05", "8"},
	}

	records, err := history.Decode(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].ItemID)
	assert.Equal(t, 8.0, records[0].QtyPhysical)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), records[0].CountDate)
	assert.Nil(t, records[0].Accuracy)
}

func TestDecodeRejectsBadDate(t *testing.T) {
	rows := [][]string{
		{inventory.ColCountDate, inventory.ColItemID},
		{"05/01/2025", "A"},
	}
	_, err := history.Decode(rows)
	require.Error(t, err)
}

func TestCSVStoreMissingFileIsEmptyBaseline(t *testing.T) {
	store := history.NewCSVStore(filepath.Join(t.TempDir(), "nope", "base.csv"))
	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVStoreRoundTrip(t *testing.T) {
	store := history.NewCSVStore(filepath.Join(t.TempDir(), "out", "base.csv"))
	want := sampleRecords()

	require.NoError(t, store.Save(context.Background(), want))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.True(t, got[i].CountDate.Equal(want[i].CountDate))
		assert.True(t, got[i].IngestedAt.Equal(want[i].IngestedAt))
		assert.Equal(t, want[i].RowID, got[i].RowID)
		assert.Equal(t, want[i].StoreID, got[i].StoreID)
		assert.Equal(t, want[i].ItemID, got[i].ItemID)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Status, got[i].Status)
		assert.Equal(t, want[i].Reason, got[i].Reason)
		assert.Equal(t, want[i].QtySystem, got[i].QtySystem)
		assert.Equal(t, want[i].QtyPhysical, got[i].QtyPhysical)
		assert.Equal(t, want[i].QtyDiff, got[i].QtyDiff)
		assert.Equal(t, want[i].Inconsistent, got[i].Inconsistent)
		assert.Equal(t, want[i].ValueDiff, got[i].ValueDiff)
		assert.Equal(t, want[i].AbsDiff, got[i].AbsDiff)
		assert.Equal(t, want[i].Accuracy, got[i].Accuracy)
	}
}

func TestCSVStoreSaveOverwritesWholesale(t *testing.T) {
	store := history.NewCSVStore(filepath.Join(t.TempDir(), "base.csv"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecords()))
	require.NoError(t, store.Save(ctx, sampleRecords()[:1]))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1, "save replaces, never appends")
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := history.OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	baseline, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, baseline, "fresh database is an empty baseline")

	want := sampleRecords()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	byItem := map[string]inventory.Record{}
	for _, rec := range got {
		byItem[rec.ItemID] = rec
	}

	a := byItem["A"]
	assert.True(t, a.CountDate.Equal(want[0].CountDate))
	assert.True(t, a.IngestedAt.Equal(want[0].IngestedAt))
	assert.Equal(t, "SP-01", a.StoreID)
	assert.True(t, a.Inconsistent)
	require.NotNil(t, a.ValueDiff)
	assert.InDelta(t, 12.5, *a.ValueDiff, 1e-9)
	require.NotNil(t, a.Accuracy)
	assert.InDelta(t, 0.75, *a.Accuracy, 1e-9)

	b := byItem["B"]
	assert.False(t, b.Inconsistent)
	assert.Nil(t, b.ValueDiff, "null survives the round trip as null")
}

func TestSQLiteStoreSaveOverwritesWholesale(t *testing.T) {
	store, err := history.OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecords()))
	require.NoError(t, store.Save(ctx, sampleRecords()[:1]))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
