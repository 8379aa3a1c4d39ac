package output

import (
	"context"
	"fmt"
	"time"

	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

// ValuesClient is the transport boundary to a spreadsheet-like
// destination. Concrete implementations (cloud spreadsheet API, test
// fake) are injected; credential lifecycle stays outside the core.
type ValuesClient interface {
	// Clear removes every value in the tab.
	Clear(ctx context.Context, spreadsheetID, tab string) error

	// Update writes values starting at the top-left of the tab.
	Update(ctx context.Context, spreadsheetID, tab string, values [][]any) error
}

// SheetPublisher republishes the consolidated base to one spreadsheet
// tab, clearing the destination fully before writing fresh values. No
// incremental append: the whole tab is the run's output.
type SheetPublisher struct {
	client        ValuesClient
	spreadsheetID string
	tab           string
	now           func() time.Time
}

// NewSheetPublisher creates a SheetPublisher for one spreadsheet tab.
func NewSheetPublisher(client ValuesClient, spreadsheetID, tab string) *SheetPublisher {
	return &SheetPublisher{
		client:        client,
		spreadsheetID: spreadsheetID,
		tab:           tab,
		now:           time.Now,
	}
}

// WithClock overrides the update-stamp clock, for tests.
func (p *SheetPublisher) WithClock(now func() time.Time) *SheetPublisher {
	p.now = now
	return p
}

// Name implements pipeline.Publisher.
func (p *SheetPublisher) Name() string {
	return fmt.Sprintf("sheet:%s/%s", p.spreadsheetID, p.tab)
}

// Publish clears the tab and rewrites it from scratch.
func (p *SheetPublisher) Publish(ctx context.Context, records []inventory.Record) error {
	if err := p.client.Clear(ctx, p.spreadsheetID, p.tab); err != nil {
		return err
	}
	return p.client.Update(ctx, p.spreadsheetID, p.tab, Values(records, p.now()))
}
