package report

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/irbench/ir-bench/internal/pkg/errors"
)

// SQLiteSink writes result rows to a SQLite database so downstream
// analysis can query them directly.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the
// results table exists.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.ReportError("opening sqlite database", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY,
		scheme TEXT NOT NULL,
		similarity TEXT NOT NULL,
		remove_stopwords INTEGER NOT NULL,
		stem INTEGER NOT NULL,
		w1 REAL NOT NULL,
		w2 REAL NOT NULL,
		w3 REAL NOT NULL,
		w4 REAL NOT NULL,
		precision_25 REAL,
		precision_50 REAL,
		precision_75 REAL,
		precision_100 REAL,
		mean_precision_1 REAL,
		mean_precision_2 REAL,
		precision_normalization REAL,
		recall_normalization REAL,
		failed INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, errors.ReportError("creating results table", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Write inserts all rows in one transaction, preserving order through the
// autoincrement id.
func (s *SQLiteSink) Write(rows []Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.ReportError("beginning transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT INTO results (
		scheme, similarity, remove_stopwords, stem,
		w1, w2, w3, w4,
		precision_25, precision_50, precision_75, precision_100,
		mean_precision_1, mean_precision_2,
		precision_normalization, recall_normalization,
		failed
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.ReportError("preparing insert", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		args := []any{
			row.Scheme, row.Similarity, row.RemoveStopwords, row.Stem,
			row.Profile[0], row.Profile[1], row.Profile[2], row.Profile[3],
		}
		// Failed configurations store NULL metrics.
		for _, m := range row.metrics() {
			if row.Failed {
				args = append(args, nil)
			} else {
				args = append(args, m)
			}
		}
		args = append(args, row.Failed)

		if _, err := stmt.Exec(args...); err != nil {
			return errors.ReportError("inserting result row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.ReportError("committing results", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
