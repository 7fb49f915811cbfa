package database

import (
	"context"

	"github.com/voidshard/conveyor/pkg/structs"
)

// Mutation is applied to a job inside a transaction.
//
// Returning an error rolls the transaction back and the error is returned to the caller as is.
type Mutation func(j *structs.Job) error

// Database stores jobs.
//
// Implementations return errors.ErrNotFound for missing jobs.
type Database interface {
	// InsertJob writes a new job
	InsertJob(ctx context.Context, j *structs.Job) error

	// Job loads a single job by ID
	Job(ctx context.Context, id string) (*structs.Job, error)

	// UpdateJob locks the job, applies the mutation & writes the result in one transaction.
	// Concurrent calls for the same job are serialized, calls for different jobs are not.
	// The returned job is as committed, with a new etag & updated_at.
	UpdateJob(ctx context.Context, id string, fn Mutation) (*structs.Job, error)

	// JobsByOwner returns an owner's jobs, newest first
	JobsByOwner(ctx context.Context, owner string, q *structs.Query) ([]*structs.Job, error)

	Close() error
}
