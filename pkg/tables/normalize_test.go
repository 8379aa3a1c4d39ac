package tables_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvpisos-datascience/inventariobvp/pkg/tables"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"trims and lowercases", "  Item ID  ", "item_id"},
		{"strips diacritics", "Descrição", "descricao"},
		{"accented uppercase", "QTD FÍSICO", "qtd_fisico"},
		{"collapses runs", "Qtd -- ERP!!", "qtd_erp"},
		{"strips edge underscores", "__status__", "status"},
		{"keeps digits", "Loja 01", "loja_01"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.Slugify(tt.header))
		})
	}
}

func testNormalizer() *tables.Normalizer {
	return tables.NewNormalizer(
		map[string]string{
			"item":    "item_id",
			"qtd_erp": "qty_system",
		},
		[]tables.PatternRule{
			{Pattern: regexp.MustCompile(`^qtd_?wms.?$`), Canonical: "qty_physical"},
		},
	)
}

func TestNormalizerCanonical(t *testing.T) {
	n := testNormalizer()

	assert.Equal(t, "item_id", n.Canonical(" ITEM "))
	assert.Equal(t, "qty_system", n.Canonical("Qtd ERP"))
	assert.Equal(t, "qty_physical", n.Canonical("QTD WMS?"), "pattern variant")
	assert.Equal(t, "endereco", n.Canonical("Endereço"), "unknown headers pass through slugified")
}

func TestNormalizeRenamesAndProjectsRows(t *testing.T) {
	table := tables.New("Item", "Qtd ERP", "Endereço")
	table.Append(tables.Row{"Item": "A", "Qtd ERP": "10", "Endereço": "R1"})

	got := testNormalizer().Normalize(table)

	assert.Equal(t, []string{"item_id", "qty_system", "endereco"}, got.Columns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "A", got.Rows[0]["item_id"])
	assert.Equal(t, "10", got.Rows[0]["qty_system"])
	assert.Equal(t, "R1", got.Rows[0]["endereco"])
}

func TestNormalizeDropsUnnamedColumns(t *testing.T) {
	table := tables.New("Item", "Unnamed: 3", "unnamed_7")
	table.Append(tables.Row{"Item": "A", "Unnamed: 3": "x", "unnamed_7": "y"})

	got := testNormalizer().Normalize(table)

	assert.Equal(t, []string{"item_id"}, got.Columns)
	assert.NotContains(t, got.Rows[0], "unnamed_3")
}

func TestNormalizeDeduplicatesKeepingFirst(t *testing.T) {
	// Both headers normalize to item_id; the first occurrence wins.
	table := tables.New("Item", "ITEM")
	table.Append(tables.Row{"Item": "first", "ITEM": "second"})

	got := testNormalizer().Normalize(table)

	assert.Equal(t, []string{"item_id"}, got.Columns)
	assert.Equal(t, "first", got.Rows[0]["item_id"])
}

func TestNormalizeIsPure(t *testing.T) {
	table := tables.New("Item")
	table.Append(tables.Row{"Item": "A"})

	_ = testNormalizer().Normalize(table)

	assert.Equal(t, []string{"Item"}, table.Columns)
	assert.Equal(t, "A", table.Rows[0]["Item"])
}
