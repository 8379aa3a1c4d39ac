package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
	"github.com/bvpisos-datascience/inventariobvp/pkg/tables"
)

var countDate = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

func newTransformer() *inventory.Transformer {
	return inventory.NewTransformer(inventory.WithClock(fixedNow))
}

func TestTransformRecomputesDiff(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Qtd WMS", "Qtd Dif")
	// The source claims a wrong difference; it must never be trusted.
	table.Append(tables.Row{"Item": "A", "Qtd ERP": "10", "Qtd WMS": "8", "Qtd Dif": "5"})
	table.Append(tables.Row{"Item": "B", "Qtd ERP": "3,5", "Qtd WMS": "3,5", "Qtd Dif": "0"})

	records, report, err := newTransformer().Transform(table, "inv.csv", countDate, "SP-01")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, -2.0, records[0].QtyDiff)
	assert.True(t, records[0].Inconsistent, "source diff disagrees at 2 decimals")
	assert.Equal(t, 0.0, records[1].QtyDiff)
	assert.False(t, records[1].Inconsistent)
	assert.Equal(t, 1, report.Inconsistent)

	for _, rec := range records {
		assert.Equal(t, rec.QtyPhysical-rec.QtySystem, rec.QtyDiff)
		assert.Equal(t, "SP-01", rec.StoreID)
		assert.Equal(t, countDate, rec.CountDate)
		assert.Equal(t, fixedNow(), rec.IngestedAt)
	}
}

func TestTransformNoInconsistencyWithoutSourceDiff(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Qtd WMS")
	table.Append(tables.Row{"Item": "A", "Qtd ERP": "10", "Qtd WMS": "8"})

	records, _, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.NoError(t, err)
	assert.False(t, records[0].Inconsistent)
}

func TestTransformSchemaErrorWhenBothQuantitiesAbsent(t *testing.T) {
	table := tables.New("Item", "Descrição")
	table.Append(tables.Row{"Item": "A", "Descrição": "parafuso"})

	_, _, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.Error(t, err)
	assert.True(t, errors.IsSchema(err))

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "inv.csv", schemaErr.File)
	assert.Equal(t, []string{"qty_system", "qty_physical"}, schemaErr.Missing)
	assert.Contains(t, schemaErr.Available, "item_id")
}

func TestTransformSingleQuantityColumnDefaultsOtherToZero(t *testing.T) {
	table := tables.New("Item", "Qtd WMS")
	table.Append(tables.Row{"Item": "A", "Qtd WMS": "7"})

	records, _, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, records[0].QtySystem)
	assert.Equal(t, 7.0, records[0].QtyPhysical)
	assert.Equal(t, 7.0, records[0].QtyDiff)
}

func TestTransformUnparseableQuantitiesDefaultToZero(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Qtd WMS")
	table.Append(tables.Row{"Item": "A", "Qtd ERP": "abc", "Qtd WMS": ""})

	records, _, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.NoError(t, err)
	assert.Zero(t, records[0].QtySystem)
	assert.Zero(t, records[0].QtyPhysical)
}

func TestTransformValueDiffStaysNull(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Qtd WMS", "Valor Dif")
	table.Append(tables.Row{"Item": "A", "Qtd ERP": "1", "Qtd WMS": "1", "Valor Dif": "12,50"})
	table.Append(tables.Row{"Item": "B", "Qtd ERP": "1", "Qtd WMS": "1", "Valor Dif": ""})

	records, _, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.NoError(t, err)

	require.NotNil(t, records[0].ValueDiff)
	assert.InDelta(t, 12.5, *records[0].ValueDiff, 1e-9)
	assert.Nil(t, records[1].ValueDiff, "empty value_diff stays null, not zero")
}

func TestTransformRowDateOverridesFileDate(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Qtd WMS", "Data Contagem")
	table.Append(tables.Row{"Item": "A", "Qtd ERP": "1", "Qtd WMS": "1", "Data Contagem": "05/06/2025"})
	table.Append(tables.Row{"Item": "B", "Qtd ERP": "1", "Qtd WMS": "1", "Data Contagem": "invalida"})

	records, report, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), records[0].CountDate)
	assert.Equal(t, countDate, records[1].CountDate, "unparseable row date falls back to the file date")
	assert.Equal(t, 1, report.DateOverrides)
}

func TestTransformPreservesRowCount(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Qtd WMS")
	for i := 0; i < 10; i++ {
		table.Append(tables.Row{"Item": "A", "Qtd ERP": "x", "Qtd WMS": ""})
	}

	records, report, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.NoError(t, err)
	assert.Len(t, records, 10)
	assert.Equal(t, 10, report.RowsIn)
	assert.Equal(t, 10, report.RowsOut)
}

func TestTransformFillsAbsentTextFields(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Qtd WMS")
	table.Append(tables.Row{"Item": "A", "Qtd ERP": "1", "Qtd WMS": "2"})

	records, _, err := newTransformer().Transform(table, "inv.csv", countDate, "")
	require.NoError(t, err)

	assert.Empty(t, records[0].Status)
	assert.Empty(t, records[0].Description)
	assert.Empty(t, records[0].Reason)
	assert.Empty(t, records[0].RowID)
}
