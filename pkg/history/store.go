// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package history

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/fileog/pkg/operation"
	"gitlab.com/tozd/go/errors"

	_ "modernc.org/sqlite"
)

// DefaultLimit is used when a listing is asked for a non-positive limit.
const DefaultLimit = 50

// 📚 Store is the durable ledger of attempted operations
type Store interface {
	operation.Log

	// Initialize creates the schema if it does not already exist
	Initialize(ctx context.Context) error
	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]operation.Operation, error)
	// ListRecent returns the newest records grouped into batches
	ListRecent(ctx context.Context, limit int) ([]operation.Batch, error)
	// ListRecentCompleted is ListRecent restricted to completed records
	ListRecentCompleted(ctx context.Context, limit int) ([]operation.Batch, error)
	// Clear deletes every record
	Clear(ctx context.Context) error
	Close() error
}

var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	id TEXT PRIMARY KEY,
	batch_id TEXT,
	operation_type TEXT NOT NULL,
	source_path TEXT NOT NULL,
	destination_path TEXT,
	original_name TEXT,
	new_name TEXT,
	timestamp INTEGER NOT NULL,
	status TEXT NOT NULL,
	backup_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_operations_timestamp ON operations(timestamp);
CREATE INDEX IF NOT EXISTS idx_operations_batch ON operations(batch_id);
`

const selectColumns = `id, batch_id, operation_type, source_path, destination_path,
	original_name, new_name, timestamp, status, backup_path`

// 🗄️ SQLiteStore keeps the operation log in a single SQLite file.
// The file is opened lazily: reads against a path that does not exist yet
// return empty results without creating it.
type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// New returns a store for the database file at path. Nothing touches the
// disk until the first call that needs it.
func New(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	return &SQLiteStore{path: filepath.Clean(path)}, nil
}

// Open is New followed by Initialize.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	s, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// conn returns the open handle. With create=false a missing database file
// yields (nil, nil).
func (s *SQLiteStore) conn(ctx context.Context, create bool) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	if !create {
		if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		} else if err != nil {
			return nil, &StoreError{Op: "open", Err: err}
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, &StoreError{Op: "open", Err: errors.Errorf("creating database directory: %w", err)}
	}

	name, err := dataSourceName(s.path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, &StoreError{Op: "initialize", Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("path", s.path).Msg("opened history database")

	s.db = db
	return db, nil
}

// dataSourceName builds a file: URI for path. Characters such as '?' and '#'
// are escaped so they stay part of the file name.
func dataSourceName(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving database path: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
	}
	return u.String(), nil
}

func (s *SQLiteStore) Initialize(ctx context.Context) error {
	_, err := s.conn(ctx, true)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, op operation.Operation) error {
	db, err := s.conn(ctx, true)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO operations (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID,
		nullable(op.BatchID),
		op.Kind.String(),
		op.SourcePath,
		nullable(op.DestinationPath),
		nullable(op.OriginalName),
		nullable(op.NewName),
		op.Timestamp,
		op.Status.String(),
		nullable(op.BackupPath),
	)
	if err != nil {
		return &StoreError{Op: "append", Err: errors.Errorf("inserting operation %s: %w", op.ID, err)}
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]operation.Operation, error) {
	return s.query(ctx, "recent", "", limit)
}

// RecentCompleted is the undo candidate pool.
func (s *SQLiteStore) RecentCompleted(ctx context.Context, limit int) ([]operation.Operation, error) {
	return s.query(ctx, "recent completed", "WHERE status = 'completed'", limit)
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]operation.Batch, error) {
	ops, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return operation.GroupBatches(ops), nil
}

func (s *SQLiteStore) ListRecentCompleted(ctx context.Context, limit int) ([]operation.Batch, error) {
	ops, err := s.RecentCompleted(ctx, limit)
	if err != nil {
		return nil, err
	}
	return operation.GroupBatches(ops), nil
}

func (s *SQLiteStore) query(ctx context.Context, op, where string, limit int) ([]operation.Operation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ops := make([]operation.Operation, 0)

	db, err := s.conn(ctx, false)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return ops, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM operations `+where+`
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, &StoreError{Op: op, Err: err}
	}
	defer rows.Close()

	logger := zerolog.Ctx(ctx)
	for rows.Next() {
		rec, err := scanOperation(rows)
		if err != nil {
			logger.Warn().Err(err).Msg("skipping unreadable history record")
			continue
		}
		ops = append(ops, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: op, Err: err}
	}
	return ops, nil
}

func (s *SQLiteStore) MarkUndone(ctx context.Context, id string) error {
	db, err := s.conn(ctx, false)
	if err != nil || db == nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE operations SET status = ? WHERE id = ? AND status = ?`,
		operation.Undone().String(), id, operation.Completed().String())
	if err != nil {
		return &StoreError{Op: "mark undone", Err: errors.Errorf("updating operation %s: %w", id, err)}
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	db, err := s.conn(ctx, false)
	if err != nil || db == nil {
		return err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM operations`)
	if err != nil {
		return &StoreError{Op: "clear", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil {
		zerolog.Ctx(ctx).Debug().Int64("deleted", n).Msg("cleared history")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return &StoreError{Op: "close", Err: err}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOperation(row scanner) (operation.Operation, error) {
	var (
		op                                           operation.Operation
		batchID, dest, original, newName, backupPath sql.NullString
		kind, status                                 string
	)

	if err := row.Scan(&op.ID, &batchID, &kind, &op.SourcePath, &dest,
		&original, &newName, &op.Timestamp, &status, &backupPath); err != nil {
		return op, errors.Errorf("scanning row: %w", err)
	}

	k, err := operation.ParseKind(kind)
	if err != nil {
		return op, errors.Errorf("decoding record %s: %w", op.ID, err)
	}
	st, err := operation.ParseStatus(status)
	if err != nil {
		return op, errors.Errorf("decoding record %s: %w", op.ID, err)
	}

	op.Kind = k
	op.Status = st
	op.BatchID = batchID.String
	op.DestinationPath = dest.String
	op.OriginalName = original.String
	op.NewName = newName.String
	op.BackupPath = backupPath.String
	return op, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
