// Package inventory defines the canonical inventory-count record and the
// transformation from raw source tables into it: header normalization,
// file-name metadata extraction, locale-aware numeric coercion, discrepancy
// recomputation and quality metrics.
package inventory

import (
	"regexp"

	"github.com/bvpisos-datascience/inventariobvp/pkg/tables"
)

// Canonical column names. Every record in the consolidated base uses this
// schema, regardless of how the source file spelled its headers.
const (
	ColCountDate    = "count_date"
	ColRowID        = "row_id"
	ColStoreID      = "store_id"
	ColItemID       = "item_id"
	ColDescription  = "description"
	ColStatus       = "status"
	ColReason       = "reason"
	ColQtySystem    = "qty_system"
	ColQtyPhysical  = "qty_physical"
	ColQtyDiff      = "qty_diff"
	ColInconsistent = "inconsistency_flag"
	ColValueDiff    = "value_diff"
	ColIngestedAt   = "ingestion_timestamp"
	ColAbsDiff      = "abs_diff"
	ColAccuracy     = "accuracy"
)

// Columns returns the canonical column order of the consolidated base.
func Columns() []string {
	return []string{
		ColCountDate,
		ColRowID,
		ColStoreID,
		ColItemID,
		ColDescription,
		ColStatus,
		ColQtySystem,
		ColQtyPhysical,
		ColQtyDiff,
		ColInconsistent,
		ColValueDiff,
		ColReason,
		ColIngestedAt,
		ColAbsDiff,
		ColAccuracy,
	}
}

// synonyms maps known header slugs to canonical names. The pt-BR entries
// cover the headers the warehouse teams actually ship.
var synonyms = map[string]string{
	"item":          ColItemID,
	"item_id":       ColItemID,
	"id":            ColRowID,
	"descricao":     ColDescription,
	"description":   ColDescription,
	"status":        ColStatus,
	"motivo":        ColReason,
	"reason":        ColReason,
	"qtd_erp":       ColQtySystem,
	"qtd_sistema":   ColQtySystem,
	"qty_system":    ColQtySystem,
	"qtd_wms":       ColQtyPhysical,
	"qtd_fisico":    ColQtyPhysical,
	"qtd_fisica":    ColQtyPhysical,
	"qty_physical":  ColQtyPhysical,
	"qtd_dif":       ColQtyDiff,
	"qty_diff":      ColQtyDiff,
	"valor_dif":     ColValueDiff,
	"value_diff":    ColValueDiff,
	"data_contagem": ColCountDate,
	"dt_inventario": ColCountDate,
	"count_date":    ColCountDate,
	"loja":          ColStoreID,
	"store":         ColStoreID,
	"store_id":      ColStoreID,
}

// patterns catch looser historical spellings of the quantity and date
// headers that the exact map cannot enumerate.
var patterns = []tables.PatternRule{
	{Pattern: regexp.MustCompile(`^qtd_?erp.?$`), Canonical: ColQtySystem},
	{Pattern: regexp.MustCompile(`^qtd_?(wms|fisic\w*)$`), Canonical: ColQtyPhysical},
	{Pattern: regexp.MustCompile(`^qtd_?dif\w*$`), Canonical: ColQtyDiff},
	{Pattern: regexp.MustCompile(`^valor?_?dif\w*$`), Canonical: ColValueDiff},
	{Pattern: regexp.MustCompile(`^(data|dt)_?(contagem|invent\w*)$`), Canonical: ColCountDate},
}

// NewNormalizer returns a column normalizer loaded with the inventory
// synonym map and pattern rules.
func NewNormalizer() *tables.Normalizer {
	return tables.NewNormalizer(synonyms, patterns)
}
