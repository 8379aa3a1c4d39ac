package history

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

// CSVStore persists the consolidated base as a CSV file. The same file
// is the pipeline's local persisted snapshot.
type CSVStore struct {
	path string
}

// NewCSVStore creates a CSVStore at the given path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the store's file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the prior history. A missing file is an empty baseline, not
// an error.
func (s *CSVStore) Load(ctx context.Context) ([]inventory.Record, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("open", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}
	records, err := Decode(rows)
	if err != nil {
		return nil, errors.WrapIO("decode", s.path, err)
	}
	return records, nil
}

// Save overwrites the history wholesale. The write goes through a temp
// file and rename so a crashed run never leaves a half-written base.
func (s *CSVStore) Save(ctx context.Context, records []inventory.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(s.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.csv")
	if err != nil {
		return errors.WrapIO("create", s.path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(Encode(records)); err != nil {
		tmp.Close()
		return errors.WrapIO("write", s.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.WrapIO("write", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}
