package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aevon-lab/monster-arena/internal/core/storage"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanDocument reads a (doc, version) row into dest and returns the version.
// Compatible with both sql.Row and sql.Rows.
func scanDocument(row scanner, dest interface{}) (int64, error) {
	var doc []byte
	var version int64

	if err := row.Scan(&doc, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("failed to scan document row: %w", err)
	}

	if err := json.Unmarshal(doc, dest); err != nil {
		return 0, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return version, nil
}

// checkSwapped maps a compare-and-swap update that touched no row to
// storage.ErrVersionConflict.
func checkSwapped(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrVersionConflict
	}
	return nil
}
