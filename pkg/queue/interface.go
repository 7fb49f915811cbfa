package queue

import (
	"context"

	"github.com/voidshard/conveyor/pkg/structs"
)

// Handler applies an update to a job.
//
// An error that errors.IsClientError recognises is a rejection of the update; queues must not
// retry it.
type Handler func(ctx context.Context, jobID string, u *structs.Update) error

// Queue carries executor updates to whoever applies them.
//
// It decouples how an executor reaches us (HTTP, in process, a message broker) from the
// state machine that applies updates.
type Queue interface {
	// Register the handler updates are delivered to. Must be called before Run.
	Register(h Handler) error

	// Run processes updates. This should block until Close() is called.
	Run() error

	// Enqueue an update for the given job.
	//
	// If the queue supports it, returns a unique id for the queued update.
	// Synchronous queues return the handler's error.
	Enqueue(ctx context.Context, jobID string, u *structs.Update) (string, error)

	// Close & shutdown the queue.
	Close() error
}
