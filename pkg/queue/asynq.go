package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	asyncUpdateQueue = "conveyor:updates"
	asyncUpdateTask  = "job:update"
)

// payload is what we put on the wire for each update
type payload struct {
	JobID  string          `json:"job_id"`
	Update *structs.Update `json:"update"`
}

// Asynq delivers updates via redis.
type Asynq struct {
	opts  *Options
	redis asynq.RedisClientOpt

	cli *asynq.Client

	// if register is called we're intended to start a server
	lock sync.Mutex
	mux  *asynq.ServeMux
	srv  *asynq.Server

	done      chan struct{}
	closeOnce sync.Once
}

func NewAsynqQueue(opts *Options) (*Asynq, error) {
	opts.SetDefaults()
	conn, err := redisOpts(opts)
	if err != nil {
		return nil, err
	}
	return &Asynq{
		opts:  opts,
		redis: conn,
		cli:   asynq.NewClient(conn),
		done:  make(chan struct{}),
	}, nil
}

// redisOpts parses a redis URL (including credentials & db number) into asynq's client options
func redisOpts(opts *Options) (asynq.RedisClientOpt, error) {
	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("invalid queue url: %w", err)
	}
	conn := asynq.RedisClientOpt{
		Addr:      parsed.Addr,
		Username:  parsed.Username,
		Password:  parsed.Password,
		DB:        parsed.DB,
		TLSConfig: parsed.TLSConfig,
	}
	if opts.TLSConfig != nil {
		conn.TLSConfig = opts.TLSConfig
	}
	return conn, nil
}

func (a *Asynq) Close() error {
	a.closeOnce.Do(func() {
		close(a.done)
		a.lock.Lock()
		defer a.lock.Unlock()
		if a.srv != nil {
			a.srv.Shutdown()
		}
	})
	return a.cli.Close()
}

func (a *Asynq) Register(h Handler) error {
	a.buildServer()
	a.mux.HandleFunc(asyncUpdateTask, func(ctx context.Context, t *asynq.Task) error {
		p, err := decodePayload(t.Payload())
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		err = h(ctx, p.JobID, p.Update)
		if errors.IsClientError(err) {
			// rejected, retrying won't help
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	})
	return nil
}

func (a *Asynq) Run() error {
	a.lock.Lock()
	srv, mux := a.srv, a.mux
	a.lock.Unlock()
	if srv == nil {
		return fmt.Errorf("no handler registered")
	}

	err := srv.Start(mux)
	if err != nil {
		return err
	}
	<-a.done
	return nil
}

func (a *Asynq) Enqueue(ctx context.Context, jobID string, u *structs.Update) (string, error) {
	data, err := encodePayload(jobID, u)
	if err != nil {
		return "", err
	}
	info, err := a.cli.EnqueueContext(ctx, asynq.NewTask(asyncUpdateTask, data), asynq.Queue(asyncUpdateQueue), asynq.MaxRetry(0))
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (a *Asynq) buildServer() {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.mux != nil {
		// someone locked and set this first
		return
	}
	a.srv = asynq.NewServer(
		a.redis,
		asynq.Config{
			Concurrency: a.opts.Concurrency,
			Queues:      map[string]int{asyncUpdateQueue: 1},
		},
	)
	a.mux = asynq.NewServeMux()
}

func encodePayload(jobID string, u *structs.Update) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("update is required")
	}
	return json.Marshal(&payload{JobID: jobID, Update: u})
}

func decodePayload(data []byte) (*payload, error) {
	p := &payload{}
	err := json.Unmarshal(data, p)
	if err != nil {
		return nil, err
	}
	if p.JobID == "" || p.Update == nil {
		return nil, fmt.Errorf("payload missing job id or update")
	}
	return p, nil
}
