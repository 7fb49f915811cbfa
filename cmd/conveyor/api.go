package main

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/voidshard/conveyor/pkg/api"
	"github.com/voidshard/conveyor/pkg/api/http/common"
	"github.com/voidshard/conveyor/pkg/api/http/server"
)

const (
	docApi = `Run the API server`
)

type optsAPI struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsSigner
	optsEngine

	Addr    string `long:"addr" env:"ADDR" description:"Address to bind to" default:"localhost:3000"`
	TLSCert string `long:"cert" env:"CERT" description:"Path to TLS certificate"`
	TLSKey  string `long:"key" env:"KEY" description:"Path to TLS key"`

	JWTSecret      string `long:"jwt-secret" env:"JWT_SECRET" description:"HS256 secret of caller bearer tokens. If unset callers are identified by header"`
	IdentityHeader string `long:"identity-header" env:"IDENTITY_HEADER" description:"Header set by a trusted auth proxy naming the caller"`

	WithWorker bool `long:"with-worker" env:"WITH_WORKER" description:"Also apply queued updates in this process"`
}

func (c *optsAPI) Execute(args []string) error {
	cfg, log, err := c.optsGeneral.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := apiOptions(cfg, log, &c.optsDatabase, &c.optsQueue, &c.optsEngine)
	if err != nil {
		return err
	}
	sg, err := c.optsSigner.signer(context.Background())
	if err != nil {
		return err
	}
	defer sg.Close()
	opts.Signer = sg

	svc, run, err := api.NewWorker(opts)
	if err != nil {
		return err
	}

	var ident server.Identity = &server.HeaderIdentity{Header: c.IdentityHeader}
	if c.JWTSecret != "" {
		ident = server.NewJWTIdentity([]byte(c.JWTSecret))
	} else if c.IdentityHeader == "" {
		ident = &server.HeaderIdentity{Header: common.HeaderUser}
	}

	s := server.NewServer(&server.Options{
		Addr:     c.Addr,
		TLSCert:  c.TLSCert,
		TLSKey:   c.TLSKey,
		Debug:    c.Debug,
		Identity: ident,
		Logger:   log,
	})

	if !c.WithWorker {
		defer svc.Close()
		return s.ServeForever(svc)
	}

	var g errgroup.Group
	g.Go(func() error {
		err := s.ServeForever(svc)
		svc.Close()
		return err
	})
	g.Go(func() error {
		err := run()
		if err != nil {
			log.Error("worker stopped", "error", err)
			s.Close()
		}
		return err
	})
	return g.Wait()
}
