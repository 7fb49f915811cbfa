package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	cerr "github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	sqliteMemory = ":memory:"

	sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    status TEXT NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0 CHECK (progress >= 0 AND progress <= 100),
    terminal_message TEXT NOT NULL DEFAULT '',
    facts BLOB,
    links BLOB NOT NULL,
    num_input_granules INTEGER,
    request_url TEXT NOT NULL DEFAULT '',
    etag TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS jobs_owner_created_at ON jobs (owner, created_at DESC);
`
)

// SQLite is a Database implementation for a single node (or tests).
//
// Every write transaction is BEGIN IMMEDIATE so writers are serialized by the database lock.
type SQLite struct {
	opts *Options
	db   *sql.DB
}

// NewSQLite opens (and creates the schema of) a sqlite database.
//
// The URL is sqlite://<path> or sqlite://:memory:
func NewSQLite(opts *Options) (*SQLite, error) {
	opts.SetDefaults()

	path := strings.TrimPrefix(opts.connURL(), schemeSQLite)
	memory := path == "" || path == sqliteMemory
	if memory {
		path = sqliteMemory
	}

	timeout := opts.Timeout.Milliseconds()
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", path, timeout)
	if !memory {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		// each connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	_, err = db.ExecContext(ctx, sqliteSchema)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{opts: opts, db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// InsertJob inserts a new job
func (s *SQLite) InsertJob(ctx context.Context, j *structs.Job) error {
	prepareInsert(j)
	qstr, args, err := insertJobSQL(question, j)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, qstr, args...)
	return err
}

// Job returns a job by ID
func (s *SQLite) Job(ctx context.Context, id string) (*structs.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	j, err := scanJob(s.db.QueryRowContext(ctx, selectJobSQL(question, false), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cerr.ErrNotFound
	}
	return j, err
}

// UpdateJob applies fn to a job inside an immediate transaction.
func (s *SQLite) UpdateJob(ctx context.Context, id string, fn Mutation) (*structs.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	j, err := scanJob(tx.QueryRowContext(ctx, selectJobSQL(question, false), id))
	if err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cerr.ErrNotFound
		}
		return nil, err
	}

	oldETag := j.ETag
	err = fn(j)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	touch(j)

	qstr, args, err := updateJobSQL(question, j, oldETag)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res, err := tx.ExecContext(ctx, qstr, args...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if n == 0 {
		tx.Rollback()
		return nil, cerr.ErrETagMismatch
	}

	return j, tx.Commit()
}

// JobsByOwner returns jobs owned by the given identity, newest first
func (s *SQLite) JobsByOwner(ctx context.Context, owner string, q *structs.Query) ([]*structs.Job, error) {
	if q == nil {
		q = &structs.Query{}
	}
	q.Sanitize()
	qstr, args := jobsByOwnerSQL(question, owner, q)

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, qstr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*structs.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}
