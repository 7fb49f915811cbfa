package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cerr "github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

// Postgres is a Database implementation that uses postgres.
type Postgres struct {
	opts *Options
	pool *pgxpool.Pool
}

// NewPostgres returns a new Postgres database connection.
// The schema is expected to exist already (see Migrate).
func NewPostgres(opts *Options) (*Postgres, error) {
	opts.SetDefaults()
	pool, err := pgxpool.New(context.Background(), opts.connURL())
	return &Postgres{pool: pool, opts: opts}, err
}

// Close shuts down the database connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// InsertJob inserts a new job
func (p *Postgres) InsertJob(ctx context.Context, j *structs.Job) error {
	prepareInsert(j)
	qstr, args, err := insertJobSQL(dollar, j)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, qstr, args...)
	return err
}

// Job returns a job by ID
func (p *Postgres) Job(ctx context.Context, id string) (*structs.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	j, err := scanJob(conn.QueryRow(ctx, selectJobSQL(dollar, false), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cerr.ErrNotFound
	}
	return j, err
}

// UpdateJob locks the job row (SELECT .. FOR UPDATE), applies fn and writes the result.
//
// The row lock serializes writers to the same job across every process sharing the database.
func (p *Postgres) UpdateJob(ctx context.Context, id string, fn Mutation) (*structs.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, err
	}

	j, err := scanJob(tx.QueryRow(ctx, selectJobSQL(dollar, true), id))
	if err != nil {
		tx.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerr.ErrNotFound
		}
		return nil, err
	}

	oldETag := j.ETag
	err = fn(j)
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	touch(j)

	qstr, args, err := updateJobSQL(dollar, j, oldETag)
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	info, err := tx.Exec(ctx, qstr, args...)
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if info.RowsAffected() == 0 {
		tx.Rollback(ctx)
		return nil, cerr.ErrETagMismatch
	}

	err = tx.Commit(ctx)
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	return j, nil
}

// JobsByOwner returns jobs owned by the given identity, newest first
func (p *Postgres) JobsByOwner(ctx context.Context, owner string, q *structs.Query) ([]*structs.Job, error) {
	if q == nil {
		q = &structs.Query{}
	}
	q.Sanitize()
	qstr, args := jobsByOwnerSQL(dollar, owner, q)

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, qstr, args...)
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
