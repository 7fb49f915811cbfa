package api

import (
	"github.com/voidshard/conveyor/internal/core"
	"github.com/voidshard/conveyor/pkg/database"
	"github.com/voidshard/conveyor/pkg/queue"
)

// New connects to the database & queue named in opts and returns the service.
//
// sqlite:// database URLs open a local SQLite database, anything else is treated as postgres.
// redis:// (or rediss://) queue URLs deliver executor updates via asynq, anything else
// applies them in process.
func New(opts *Options) (API, error) {
	svc, _, err := build(opts)
	return svc, err
}

// NewWorker is New for processes that consume the queue. The returned function blocks
// applying queued updates until the service is closed.
func NewWorker(opts *Options) (API, func() error, error) {
	svc, qu, err := build(opts)
	if err != nil {
		return nil, nil, err
	}
	return svc, qu.Run, nil
}

func build(opts *Options) (*core.Service, queue.Queue, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()

	db, err := openDatabase(opts.Database)
	if err != nil {
		return nil, nil, err
	}

	qu, err := openQueue(opts.Queue)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	svc, err := core.NewService(db, qu, opts.Signer, opts.Engine, opts.Logger)
	if err != nil {
		qu.Close()
		db.Close()
		return nil, nil, err
	}
	return svc, qu, nil
}

func openDatabase(opts *database.Options) (database.Database, error) {
	if opts.IsSQLite() {
		return database.NewSQLite(opts)
	}
	return database.NewPostgres(opts)
}

func openQueue(opts *queue.Options) (queue.Queue, error) {
	if opts.IsRedis() {
		return queue.NewAsynqQueue(opts)
	}
	return queue.NewDirectQueue(), nil
}
