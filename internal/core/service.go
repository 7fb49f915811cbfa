package core

import (
	"context"
	"fmt"
	"time"

	"github.com/voidshard/conveyor/internal/logger"
	"github.com/voidshard/conveyor/internal/utils"
	"github.com/voidshard/conveyor/pkg/database"
	"github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/links"
	"github.com/voidshard/conveyor/pkg/messages"
	"github.com/voidshard/conveyor/pkg/queue"
	"github.com/voidshard/conveyor/pkg/signer"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	msgInternal = "Internal server error."
	msgNotFound = "Unable to find job %s"
)

// Service is the job engine. It holds no mutable state of its own; every job lives in the
// database, so any number of Services may share one.
type Service struct {
	db       database.Database
	qu       queue.Queue
	sg       signer.Signer
	resolver *links.Resolver
	opts     *structs.Options
	log      *logger.Logger
}

// NewService returns a Service and registers it as the handler of updates arriving on qu.
func NewService(db database.Database, qu queue.Queue, sg signer.Signer, opts *structs.Options, log *logger.Logger) (*Service, error) {
	if opts == nil {
		opts = &structs.Options{}
	}
	opts.SetDefaults()
	if log == nil {
		log = logger.Nop()
	}

	me := &Service{
		db:       db,
		qu:       qu,
		sg:       sg,
		resolver: links.NewResolver(opts),
		opts:     opts,
		log:      log.With("service", "core"),
	}

	err := qu.Register(me.handleUpdate)
	if err != nil {
		return nil, err
	}
	return me, nil
}

func (c *Service) Close() error {
	c.qu.Close()
	c.db.Close()
	return nil
}

// Submit creates a new job in the accepted state.
func (c *Service) Submit(ctx context.Context, in *structs.SubmitRequest) (*structs.Job, error) {
	if in == nil || in.Owner == "" {
		return nil, errors.Validation("A job must have an owner")
	}

	j := &structs.Job{
		ID:         utils.NewRandomID(),
		Owner:      in.Owner,
		Status:     structs.ACCEPTED,
		RequestURL: in.RequestURL,
	}
	j.Links = []*structs.Link{{
		Href:  fmt.Sprintf("%s/jobs/%s", c.opts.Origin, j.ID),
		Rel:   structs.RelSelf,
		Type:  "application/json",
		Title: "The current page",
	}}

	if in.Facts != nil {
		facts := *in.Facts
		if facts.SystemLimit <= 0 {
			facts.SystemLimit = c.opts.SystemGranuleLimit
		}
		j.Facts = &facts
	}

	if in.NumInputGranules != nil {
		if *in.NumInputGranules < 0 {
			return nil, errors.Validation("The number of input granules cannot be negative")
		}
		n := *in.NumInputGranules
		j.NumInputGranules = &n
	} else if j.Facts != nil {
		n := granulesToProcess(j.Facts)
		j.NumInputGranules = &n
	}

	err := c.db.InsertJob(ctx, j)
	if err != nil {
		return nil, c.storeError(j.ID, err)
	}
	c.log.Info("job accepted", "job_id", j.ID, "owner", j.Owner)
	return j, nil
}

// granulesToProcess is how many of the matched granules a job will actually work on
func granulesToProcess(f *structs.SearchFacts) int {
	n := f.TotalHits
	if f.SystemLimit > 0 && n > f.SystemLimit {
		n = f.SystemLimit
	}
	if f.MaxResults != nil && n > *f.MaxResults {
		n = *f.MaxResults
	}
	return n
}

// Status returns a job as its owner sees it.
func (c *Service) Status(ctx context.Context, jobID, caller string) (*structs.JobView, error) {
	err := requireCaller(caller)
	if err != nil {
		return nil, err
	}
	err = validateJobID(jobID)
	if err != nil {
		return nil, err
	}

	j, err := c.db.Job(ctx, jobID)
	if err != nil {
		return nil, c.storeError(jobID, err)
	}

	j, err = authorize(j, caller)
	if err != nil {
		return nil, err
	}
	return c.view(j), nil
}

// Jobs returns the caller's jobs, newest first. No jobs is not an error.
func (c *Service) Jobs(ctx context.Context, caller string, q *structs.Query) ([]*structs.JobView, error) {
	err := requireCaller(caller)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q = &structs.Query{}
	}
	q.Sanitize()

	jobs, err := c.db.JobsByOwner(ctx, caller, q)
	if err != nil {
		c.log.Error("failed to list jobs", "owner", caller, "error", err)
		return nil, errors.Server(err, msgInternal)
	}

	out := make([]*structs.JobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, c.view(j))
	}
	return out, nil
}

// Cancel ends a job on behalf of its owner.
func (c *Service) Cancel(ctx context.Context, jobID, caller string) (*structs.JobView, error) {
	err := requireCaller(caller)
	if err != nil {
		return nil, err
	}
	err = validateJobID(jobID)
	if err != nil {
		return nil, err
	}

	j, err := c.db.UpdateJob(ctx, jobID, func(j *structs.Job) error {
		_, err := authorize(j, caller)
		if err != nil {
			return err
		}
		return terminate(j, structs.CANCELED, "")
	})
	if err != nil {
		return nil, c.storeError(jobID, err)
	}

	c.log.Info("job canceled", "job_id", jobID)
	return c.view(j), nil
}

// ResultURL returns a temporary URL for a result in storage, issued to the caller.
func (c *Service) ResultURL(ctx context.Context, bucket, key, caller string) (string, error) {
	err := requireCaller(caller)
	if err != nil {
		return "", err
	}
	if bucket == "" || key == "" {
		return "", errors.Validation("A bucket and key are required")
	}
	if c.sg == nil {
		c.log.Error("no signer configured", "bucket", bucket, "key", key)
		return "", errors.Server(nil, msgInternal)
	}

	signed, err := c.sg.Sign(ctx, links.StorageURI(bucket, key), caller)
	if err != nil {
		c.log.Error("failed to sign url", "bucket", bucket, "key", key, "error", err)
		return "", errors.Server(err, msgInternal)
	}
	return signed, nil
}

// view assembles what the owner of j is shown
func (c *Service) view(j *structs.Job) *structs.JobView {
	return &structs.JobView{
		JobID:            j.ID,
		Username:         j.Owner,
		Status:           j.Status,
		Message:          messages.Compose(j),
		Progress:         j.Progress,
		CreatedAt:        time.UnixMilli(j.CreatedAt).UTC(),
		UpdatedAt:        time.UnixMilli(j.UpdatedAt).UTC(),
		Links:            c.resolver.ResolveAll(j.Links),
		Request:          j.RequestURL,
		NumInputGranules: j.NumInputGranules,
	}
}

// storeError turns a database error into one we can return.
//
// Errors raised by our own mutations are returned as is.
func (c *Service) storeError(jobID string, err error) error {
	var known *errors.Error
	if errors.As(err, &known) {
		return err
	}
	if errors.Is(err, errors.ErrNotFound) {
		return errors.NotFound(msgNotFound, jobID)
	}
	c.log.Error("database error", "job_id", jobID, "error", err)
	return errors.Server(err, msgInternal)
}
