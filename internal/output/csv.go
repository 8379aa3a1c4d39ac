package output

import (
	"context"

	"github.com/bvpisos-datascience/inventariobvp/internal/history"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

// CSVPublisher writes the local persisted snapshot of the final table,
// one record per row under the canonical field names.
type CSVPublisher struct {
	store *history.CSVStore
}

// NewCSVPublisher creates a CSVPublisher writing to path.
func NewCSVPublisher(path string) *CSVPublisher {
	return &CSVPublisher{store: history.NewCSVStore(path)}
}

// Name implements pipeline.Publisher.
func (p *CSVPublisher) Name() string {
	return "csv:" + p.store.Path()
}

// Publish overwrites the snapshot file with the final table.
func (p *CSVPublisher) Publish(ctx context.Context, records []inventory.Record) error {
	return p.store.Save(ctx, records)
}
