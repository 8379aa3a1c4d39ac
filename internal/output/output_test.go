package output_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvpisos-datascience/inventariobvp/internal/output"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

func ptr(v float64) *float64 { return &v }

func stamp() time.Time {
	return time.Date(2025, 6, 10, 14, 30, 45, 0, time.UTC)
}

func TestValuesHeaderAndStamp(t *testing.T) {
	rows := output.Values(nil, stamp())
	require.Len(t, rows, 1)

	header := rows[0]
	require.Len(t, header, len(inventory.Columns())+1)
	assert.Equal(t, inventory.ColCountDate, header[0])
	assert.Equal(t, output.StampColumn, header[len(header)-1])
}

func TestValuesNullVersusZero(t *testing.T) {
	records := []inventory.Record{
		{
			CountDate:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			ItemID:      "A",
			QtySystem:   0,
			QtyPhysical: math.NaN(),
			QtyDiff:     math.Inf(-1),
			IngestedAt:  time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			Accuracy:    ptr(0),
		},
	}

	rows := output.Values(records, stamp())
	require.Len(t, rows, 2)

	cell := func(col string) any {
		for i, name := range rows[0] {
			if name == col {
				return rows[1][i]
			}
		}
		t.Fatalf("column %q not in header", col)
		return nil
	}

	assert.Equal(t, "2025-01-05", cell(inventory.ColCountDate))
	assert.Equal(t, 0.0, cell(inventory.ColQtySystem), "zero stays a real zero")
	assert.Nil(t, cell(inventory.ColQtyPhysical), "NaN becomes null")
	assert.Nil(t, cell(inventory.ColQtyDiff), "Inf becomes null")
	assert.Nil(t, cell(inventory.ColValueDiff), "absent nullable becomes null")
	assert.Equal(t, 0.0, cell(inventory.ColAccuracy), "present zero accuracy is not null")
	assert.Nil(t, cell(inventory.ColRowID), "empty text becomes null")
	assert.Equal(t, "2025-01-06T09:00:00Z", cell(inventory.ColIngestedAt))
	assert.Equal(t, "2025-06-10 14:30:45", cell(output.StampColumn))
}

type fakeValuesClient struct {
	calls   []string
	cleared bool
	values  [][]any
	err     error
}

func (c *fakeValuesClient) Clear(_ context.Context, spreadsheetID, tab string) error {
	c.calls = append(c.calls, "clear")
	c.cleared = true
	return c.err
}

func (c *fakeValuesClient) Update(_ context.Context, spreadsheetID, tab string, values [][]any) error {
	c.calls = append(c.calls, "update")
	c.values = values
	return nil
}

func TestSheetPublisherClearsBeforeUpdate(t *testing.T) {
	client := &fakeValuesClient{}
	pub := output.NewSheetPublisher(client, "sheet-1", "Consolidado").WithClock(stamp)

	records := []inventory.Record{{
		CountDate:  time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		ItemID:     "A",
		IngestedAt: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, pub.Publish(context.Background(), records))

	assert.Equal(t, []string{"clear", "update"}, client.calls)
	require.Len(t, client.values, 2)
	assert.Equal(t, "sheet:sheet-1/Consolidado", pub.Name())
}

func TestSheetPublisherStopsOnClearFailure(t *testing.T) {
	client := &fakeValuesClient{err: fmt.Errorf("permission denied")}
	pub := output.NewSheetPublisher(client, "sheet-1", "Consolidado").WithClock(stamp)

	err := pub.Publish(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, client.values, "no partial write after a failed clear")
}

func TestFileValuesClientRoundTrip(t *testing.T) {
	dir := t.TempDir()
	client := output.NewFileValuesClient(dir)
	ctx := context.Background()

	require.NoError(t, client.Clear(ctx, "sheet-1", "Consolidado"), "clearing a missing tab is fine")

	values := [][]any{{"item_id"}, {"A"}}
	require.NoError(t, client.Update(ctx, "sheet-1", "Consolidado", values))

	path := filepath.Join(dir, "sheet-1-Consolidado.yaml")
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, client.Clear(ctx, "sheet-1", "Consolidado"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVPublisherWritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot", "base.csv")
	pub := output.NewCSVPublisher(path)

	assert.Equal(t, "csv:"+path, pub.Name())

	records := []inventory.Record{{
		CountDate:  time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		ItemID:     "A",
		IngestedAt: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, pub.Publish(context.Background(), records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "count_date")
	assert.Contains(t, string(data), "2025-01-05")
}
