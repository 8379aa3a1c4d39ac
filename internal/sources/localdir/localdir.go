// Package localdir implements the source listing and reading
// collaborators over a local directory of CSV exports. Cloud-store
// transports satisfy the same pipeline interfaces and can be swapped in
// without touching the core.
package localdir

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/pipeline"
	"github.com/bvpisos-datascience/inventariobvp/pkg/tables"
)

// MIME types the listing recognizes, mirroring the cloud store's file
// metadata.
const (
	MIMECSV    = "text/csv"
	MIMEXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMELegacy = "application/vnd.ms-excel"
)

// DetectMIME returns the MIME type for a file name by extension.
func DetectMIME(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return MIMECSV
	case ".xlsx":
		return MIMEXLSX
	case ".xls":
		return MIMELegacy
	default:
		return ""
	}
}

// IsLegacy reports whether a file is a legacy spreadsheet export that
// needs conversion before this pipeline can read it.
func IsLegacy(name, mime string) bool {
	return mime == MIMELegacy || strings.HasSuffix(strings.ToLower(name), ".xls")
}

// Client lists and reads CSV source files from one directory.
type Client struct {
	dir   string
	comma rune
}

// Option configures a Client.
type Option func(*Client)

// WithComma sets the CSV field separator. Exports from pt-BR locales
// commonly use ";".
func WithComma(comma rune) Option {
	return func(c *Client) { c.comma = comma }
}

// New creates a Client for the given directory.
func New(dir string, opts ...Option) *Client {
	c := &Client{dir: dir, comma: ','}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List enumerates the readable source files in the directory, sorted by
// name. An empty directory yields an empty slice, not an error.
func (c *Client) List(ctx context.Context) ([]pipeline.SourceFile, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errors.WrapIO("list", c.dir, err)
	}

	files := make([]pipeline.SourceFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		mime := DetectMIME(entry.Name())
		if mime != MIMECSV {
			continue
		}
		files = append(files, pipeline.SourceFile{
			ID:   filepath.Join(c.dir, entry.Name()),
			Name: entry.Name(),
			MIME: mime,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Read parses one CSV file into a raw table. The first row is the
// header; rows with fewer cells than the header are padded with empty
// cells, extra cells are dropped. Failures are *errors.ReadError so the
// orchestrator can skip the file and continue.
func (c *Client) Read(ctx context.Context, file pipeline.SourceFile) (*tables.Table, error) {
	f, err := os.Open(file.ID)
	if err != nil {
		return nil, errors.NewReadError(file.Name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = c.comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.NewReadError(file.Name, err)
	}

	table := tables.New(header...)
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewReadError(file.Name, err)
		}
		row := make(tables.Row, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		table.Append(row)
	}
	return table, nil
}
