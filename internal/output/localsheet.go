package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
)

// FileValuesClient is a ValuesClient backed by local files: each tab is
// one YAML document under the client's directory. It stands in for the
// cloud spreadsheet API in local deployments and tests; the clear /
// update contract is the same.
type FileValuesClient struct {
	dir string
}

// NewFileValuesClient creates a FileValuesClient rooted at dir.
func NewFileValuesClient(dir string) *FileValuesClient {
	return &FileValuesClient{dir: dir}
}

func (c *FileValuesClient) path(spreadsheetID, tab string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s-%s.yaml", spreadsheetID, tab))
}

// Clear removes the tab's file. A missing file is already clear.
func (c *FileValuesClient) Clear(ctx context.Context, spreadsheetID, tab string) error {
	err := os.Remove(c.path(spreadsheetID, tab))
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("delete", c.path(spreadsheetID, tab), err)
	}
	return nil
}

// Update writes the tab's values wholesale.
func (c *FileValuesClient) Update(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return errors.WrapIO("create", c.dir, err)
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return errors.WrapIO("encode", c.path(spreadsheetID, tab), err)
	}
	if err := os.WriteFile(c.path(spreadsheetID, tab), data, 0o644); err != nil {
		return errors.WrapIO("write", c.path(spreadsheetID, tab), err)
	}
	return nil
}
