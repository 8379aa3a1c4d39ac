package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory_history (
	count_date         TEXT    NOT NULL,
	row_id             TEXT    NOT NULL DEFAULT '',
	store_id           TEXT    NOT NULL DEFAULT '',
	item_id            TEXT    NOT NULL DEFAULT '',
	description        TEXT    NOT NULL DEFAULT '',
	status             TEXT    NOT NULL DEFAULT '',
	reason             TEXT    NOT NULL DEFAULT '',
	qty_system         REAL    NOT NULL DEFAULT 0,
	qty_physical       REAL    NOT NULL DEFAULT 0,
	qty_diff           REAL    NOT NULL DEFAULT 0,
	inconsistency_flag INTEGER NOT NULL DEFAULT 0,
	value_diff         REAL,
	ingestion_ts       TEXT    NOT NULL,
	abs_diff           REAL    NOT NULL DEFAULT 0,
	accuracy           REAL
);
CREATE INDEX IF NOT EXISTS idx_inventory_history_key
	ON inventory_history (count_date, row_id, store_id, item_id);
`

// SQLiteStore persists the consolidated base in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) a sqlite history store at
// the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.WrapIO("create", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the prior history. An empty table is an empty baseline.
func (s *SQLiteStore) Load(ctx context.Context) ([]inventory.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT count_date, row_id, store_id, item_id, description, status, reason,
		       qty_system, qty_physical, qty_diff, inconsistency_flag, value_diff,
		       ingestion_ts, abs_diff, accuracy
		FROM inventory_history`)
	if err != nil {
		return nil, errors.WrapIO("read", "inventory_history", err)
	}
	defer rows.Close()

	var records []inventory.Record
	for rows.Next() {
		var (
			rec                 inventory.Record
			countDate, ingested string
			inconsistent        int
			valueDiff, accuracy sql.NullFloat64
		)
		if err := rows.Scan(
			&countDate, &rec.RowID, &rec.StoreID, &rec.ItemID, &rec.Description,
			&rec.Status, &rec.Reason, &rec.QtySystem, &rec.QtyPhysical, &rec.QtyDiff,
			&inconsistent, &valueDiff, &ingested, &rec.AbsDiff, &accuracy,
		); err != nil {
			return nil, errors.WrapIO("read", "inventory_history", err)
		}

		d, err := time.Parse(dateLayout, countDate)
		if err != nil {
			return nil, errors.WrapIO("decode", "inventory_history", err)
		}
		rec.CountDate = inventory.Day(d)
		if ts, err := time.Parse(tsLayout, ingested); err == nil {
			rec.IngestedAt = ts
		}
		rec.Inconsistent = inconsistent != 0
		if valueDiff.Valid {
			v := valueDiff.Float64
			rec.ValueDiff = &v
		}
		if accuracy.Valid {
			a := accuracy.Float64
			rec.Accuracy = &a
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("read", "inventory_history", err)
	}
	return records, nil
}

// Save overwrites the history wholesale in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []inventory.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapIO("write", "inventory_history", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_history`); err != nil {
		return errors.WrapIO("write", "inventory_history", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO inventory_history (
			count_date, row_id, store_id, item_id, description, status, reason,
			qty_system, qty_physical, qty_diff, inconsistency_flag, value_diff,
			ingestion_ts, abs_diff, accuracy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.WrapIO("write", "inventory_history", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var valueDiff, accuracy any
		if rec.ValueDiff != nil {
			valueDiff = *rec.ValueDiff
		}
		if rec.Accuracy != nil {
			accuracy = *rec.Accuracy
		}
		inconsistent := 0
		if rec.Inconsistent {
			inconsistent = 1
		}
		if _, err := stmt.ExecContext(ctx,
			rec.CountDate.Format(dateLayout), rec.RowID, rec.StoreID, rec.ItemID,
			rec.Description, rec.Status, rec.Reason, rec.QtySystem, rec.QtyPhysical,
			rec.QtyDiff, inconsistent, valueDiff,
			rec.IngestedAt.UTC().Format(tsLayout), rec.AbsDiff, accuracy,
		); err != nil {
			return errors.WrapIO("write", "inventory_history", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapIO("write", "inventory_history", err)
	}
	return nil
}
