package core

import (
	"context"
	"strings"

	"github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/links"
	"github.com/voidshard/conveyor/pkg/messages"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	errProgress = "Job progress must be between 0 and 100"
)

// ApplyUpdate validates an executor's update & applies it to the job in one transaction.
//
// A missing job is reported first, then a job that has ended, then a malformed update, so an
// executor always learns that a job is over regardless of what it sent.
func (c *Service) ApplyUpdate(ctx context.Context, jobID string, u *structs.Update) (*structs.Job, error) {
	err := validateJobID(jobID)
	if err != nil {
		return nil, err
	}

	j, err := c.db.UpdateJob(ctx, jobID, func(j *structs.Job) error {
		return apply(j, u)
	})
	if err != nil {
		err = c.storeError(jobID, err)
		if errors.IsClientError(err) {
			c.log.Debug("update rejected", "job_id", jobID, "error", err)
		}
		return nil, err
	}

	if structs.IsFinalStatus(j.Status) {
		c.log.Info("job finished", "job_id", jobID, "status", j.Status)
	}
	return j, nil
}

// EnqueueUpdate checks an update against the job's current state & passes it to the queue,
// which will call ApplyUpdate. Errors are ordered as for ApplyUpdate.
//
// With a synchronous queue any error from ApplyUpdate is returned here.
func (c *Service) EnqueueUpdate(ctx context.Context, jobID string, u *structs.Update) (string, error) {
	err := validateJobID(jobID)
	if err != nil {
		return "", err
	}

	j, err := c.db.Job(ctx, jobID)
	if err != nil {
		return "", c.storeError(jobID, err)
	}
	err = checkOpen(j)
	if err != nil {
		return "", err
	}

	u, err = normalizeUpdate(u)
	if err != nil {
		return "", err
	}

	id, err := c.qu.Enqueue(ctx, jobID, u)
	if err != nil {
		var known *errors.Error
		if errors.As(err, &known) {
			return "", err
		}
		c.log.Error("failed to enqueue update", "job_id", jobID, "error", err)
		return "", errors.Server(err, msgInternal)
	}
	return id, nil
}

// handleUpdate is registered with the queue
func (c *Service) handleUpdate(ctx context.Context, jobID string, u *structs.Update) error {
	_, err := c.ApplyUpdate(ctx, jobID, u)
	return err
}

// normalizeUpdate checks an update's fields, returning a copy in canonical form.
//
// An error message with no status means the job failed.
func normalizeUpdate(in *structs.Update) (*structs.Update, error) {
	if in == nil || in.IsEmpty() {
		return nil, errors.Validation("An update must include at least one of progress, item, status or error")
	}
	u := *in

	if u.Progress != nil {
		if _, ok := u.Progress.Int(); !ok {
			return nil, errors.InvalidRecord(errProgress)
		}
	}

	u.Status = structs.Status(strings.ToLower(string(u.Status)))
	if u.Status == "" && strings.TrimSpace(u.Error) != "" {
		u.Status = structs.FAILED
	}
	switch u.Status {
	case "", structs.RUNNING, structs.SUCCESSFUL, structs.FAILED:
	default:
		return nil, errors.Validation("Invalid status '%s'. Status must be one of running, successful or failed.", in.Status)
	}

	if u.Item != nil {
		err := links.Validate(u.Item)
		if err != nil {
			return nil, err
		}
	}

	return &u, nil
}

// checkOpen fails if j has ended
func checkOpen(j *structs.Job) error {
	if structs.IsFinalStatus(j.Status) {
		return errors.TerminalState("Job %s has already finished (%s) and cannot be updated", j.ID, j.Status)
	}
	return nil
}

// apply mutates j according to an executor's update
func apply(j *structs.Job, in *structs.Update) error {
	err := checkOpen(j)
	if err != nil {
		return err
	}
	u, err := normalizeUpdate(in)
	if err != nil {
		return err
	}

	if u.Progress != nil {
		p, _ := u.Progress.Int()
		j.Progress = p
	}

	if u.Item != nil {
		merged, err := links.Merge(j.Links, u.Item)
		if err != nil {
			return err
		}
		j.Links = merged
	}

	if u.IsTerminal() {
		return terminate(j, u.Status, u.Error)
	}

	if j.Status == structs.ACCEPTED {
		j.Status = structs.RUNNING
	}
	return nil
}

// terminate ends the job, freezing its message
func terminate(j *structs.Job, status structs.Status, errMsg string) error {
	if !structs.CanTransition(j.Status, status) {
		return errors.TerminalState("Job %s has already finished (%s) and cannot be updated", j.ID, j.Status)
	}
	j.Status = status
	j.TerminalMessage = messages.Terminal(status, errMsg)
	if status == structs.SUCCESSFUL {
		j.Progress = 100
	}
	return nil
}
