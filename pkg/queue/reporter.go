package queue

import (
	"context"

	"github.com/voidshard/conveyor/pkg/structs"
)

// Reporter is an executor's handle on a single job.
type Reporter struct {
	JobID string

	qu Queue
}

func NewReporter(qu Queue, jobID string) *Reporter {
	return &Reporter{JobID: jobID, qu: qu}
}

// SetProgress reports how far along the job is, as a percentage.
func (r *Reporter) SetProgress(ctx context.Context, percent int) error {
	return r.send(ctx, &structs.Update{Progress: structs.NewProgress(percent)})
}

// AddItem reports a result.
func (r *Reporter) AddItem(ctx context.Context, item *structs.Link) error {
	return r.send(ctx, &structs.Update{Item: item})
}

// SetSuccessful ends the job. No further updates will be accepted.
func (r *Reporter) SetSuccessful(ctx context.Context) error {
	return r.send(ctx, &structs.Update{Status: structs.SUCCESSFUL})
}

// SetError fails the job with the given message. No further updates will be accepted.
func (r *Reporter) SetError(ctx context.Context, msg string) error {
	return r.send(ctx, &structs.Update{Status: structs.FAILED, Error: msg})
}

func (r *Reporter) send(ctx context.Context, u *structs.Update) error {
	_, err := r.qu.Enqueue(ctx, r.JobID, u)
	return err
}
