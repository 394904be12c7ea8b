// Package store persists normalized tables between the ingest and
// report stages. Each snapshot ticket owns one SQLite database file;
// tables are stored by report-type tag with every cell as TEXT, which
// is exactly the canonical string form the normalizer emits.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"fleetsnap/internal/dataprocessing"
	apperrors "fleetsnap/internal/errors"
	"fleetsnap/pkg/contracts/domain"
)

// failuresTable records per-file ingest failures for the ticket. It is
// invisible to ListTables.
const failuresTable = "snapshot_failures"

var safeTableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Session is an open per-ticket snapshot database.
type Session struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database at path.
func Open(path string) (*Session, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("open snapshot db %s", path), err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS ` + failuresTable + ` (
		filename TEXT NOT NULL,
		error    TEXT NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("create failures table", err)
	}

	return &Session{db: db}, nil
}

// OpenTicket opens the snapshot database of a ticket inside dir.
func OpenTicket(dir, ticket string) (*Session, error) {
	return Open(filepath.Join(dir, ticket+".db"))
}

// Close closes the underlying database.
func (s *Session) Close() error {
	return s.db.Close()
}

// SaveTable stores a normalized table under the given name, replacing
// any previous contents. The whole write happens in one transaction.
func (s *Session) SaveTable(ctx context.Context, name string, t *dataprocessing.Table) error {
	if !safeTableName.MatchString(name) {
		return apperrors.NewStorageError(fmt.Sprintf("invalid table name %q", name), nil)
	}
	if t.NumColumns() == 0 {
		return apperrors.NewStorageError(fmt.Sprintf("table %q has no columns", name), nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS "`+name+`"`); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("drop table %q", name), err)
	}

	cols := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c) + " TEXT"
		placeholders[i] = "?"
	}
	ddl := fmt.Sprintf(`CREATE TABLE "%s" (%s)`, name, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create table %q", name), err)
	}

	insert := fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, name, strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("prepare insert for %q", name), err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]any, len(row))
		for i, cell := range row {
			args[i] = cell
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("insert into %q", name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("commit table %q", name), err)
	}
	return nil
}

// LoadTable reads a stored table back in column order.
func (s *Session) LoadTable(ctx context.Context, name string) (*dataprocessing.Table, error) {
	if !safeTableName.MatchString(name) {
		return nil, apperrors.NewStorageError(fmt.Sprintf("invalid table name %q", name), nil)
	}
	exists, err := s.hasTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("table %q not found", name))
	}

	rows, err := s.db.QueryContext(ctx, `SELECT * FROM "`+name+`"`)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("read table %q", name), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("read columns of %q", name), err)
	}

	t := dataprocessing.NewTable(columns)
	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("scan row of %q", name), err)
		}
		cells := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				cells[i] = v.String
			}
		}
		t.AppendRow(cells)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("iterate table %q", name), err)
	}
	return t, nil
}

// ListTables returns the stored report tables in name order.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name != ? ORDER BY name`,
		failuresTable)
	if err != nil {
		return nil, apperrors.NewStorageError("list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewStorageError("scan table name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate tables", err)
	}
	return names, nil
}

// RecordFailure appends a per-file failure for later inspection.
func (s *Session) RecordFailure(ctx context.Context, failure domain.FileFailure) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+failuresTable+` (filename, error) VALUES (?, ?)`,
		failure.Filename, failure.Error)
	if err != nil {
		return apperrors.NewStorageError("record failure", err)
	}
	return nil
}

// ListFailures returns every recorded failure in insertion order.
func (s *Session) ListFailures(ctx context.Context) ([]domain.FileFailure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, error FROM `+failuresTable+` ORDER BY rowid`)
	if err != nil {
		return nil, apperrors.NewStorageError("list failures", err)
	}
	defer rows.Close()

	var failures []domain.FileFailure
	for rows.Next() {
		var f domain.FileFailure
		if err := rows.Scan(&f.Filename, &f.Error); err != nil {
			return nil, apperrors.NewStorageError("scan failure", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate failures", err)
	}
	return failures, nil
}

func (s *Session) hasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, apperrors.NewStorageError("check table existence", err)
	}
	return n > 0, nil
}

// quoteIdent wraps a column name in double quotes for SQLite DDL.
// Normalized headers never contain quotes, but escape anyway.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
