package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/voidshard/conveyor/pkg/api"
)

const (
	docWorker = `Run a worker applying queued executor updates`
)

type optsWorker struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsEngine
}

func (c *optsWorker) Execute(args []string) error {
	cfg, log, err := c.optsGeneral.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := apiOptions(cfg, log, &c.optsDatabase, &c.optsQueue, &c.optsEngine)
	if err != nil {
		return err
	}
	if !opts.Queue.IsRedis() {
		log.Warn("queue url is not redis, there is nothing for a worker to consume", "queue_url", opts.Queue.URL)
	}

	svc, run, err := api.NewWorker(opts)
	if err != nil {
		return err
	}

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-exit
		log.Info("shutting down")
		svc.Close()
	}()

	log.Info("worker started")
	return run()
}
