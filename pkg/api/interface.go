package api

import (
	"context"

	"github.com/voidshard/conveyor/pkg/structs"
)

// API represents the functions conveyor servers should expose.
type API interface {
	// Implemented in conveyor/internal/core.Service

	Submit(ctx context.Context, in *structs.SubmitRequest) (*structs.Job, error)

	Status(ctx context.Context, jobID, caller string) (*structs.JobView, error)
	Jobs(ctx context.Context, caller string, q *structs.Query) ([]*structs.JobView, error)
	Cancel(ctx context.Context, jobID, caller string) (*structs.JobView, error)
	ResultURL(ctx context.Context, bucket, key, caller string) (string, error)

	// Executor facing. ApplyUpdate applies an update now, EnqueueUpdate hands it to the queue
	// and returns the task id.
	ApplyUpdate(ctx context.Context, jobID string, u *structs.Update) (*structs.Job, error)
	EnqueueUpdate(ctx context.Context, jobID string, u *structs.Update) (string, error)

	Close() error
}

type Server interface {
	ServeForever(api API) error
	Close() error
}
