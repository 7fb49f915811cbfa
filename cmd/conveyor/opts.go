package main

import (
	"context"
	"time"

	"github.com/voidshard/conveyor/internal/config"
	"github.com/voidshard/conveyor/internal/logger"
	"github.com/voidshard/conveyor/internal/utils"
	"github.com/voidshard/conveyor/pkg/api"
	"github.com/voidshard/conveyor/pkg/database"
	"github.com/voidshard/conveyor/pkg/queue"
	"github.com/voidshard/conveyor/pkg/signer"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	defaultDatabaseURL = "sqlite://conveyor.db"
)

type optsGeneral struct {
	Debug   bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogMode string `long:"log-mode" env:"LOG_MODE" default:"production" description:"Log format, production (json) or development"`
	Config  string `long:"config" env:"CONFIG" description:"YAML config file, flags override it"`
}

type optsDatabase struct {
	DatabaseURL     string        `long:"database-url" env:"DATABASE_URL" description:"Database connection string, postgres:// or sqlite://"`
	DatabaseTimeout time.Duration `long:"database-timeout" env:"DATABASE_TIMEOUT" default:"10s" description:"Timeout of each database operation"`
}

type optsQueue struct {
	QueueURL         string `long:"queue-url" env:"QUEUE_URL" description:"Queue connection string, redis:// uses asynq, empty applies updates in process"`
	QueueConcurrency int    `long:"queue-concurrency" env:"QUEUE_CONCURRENCY" default:"10" description:"Updates a worker applies at once"`

	QueueTLS utils.TLSFiles `group:"Queue TLS" namespace:"queue" env-namespace:"QUEUE"`
}

type optsSigner struct {
	GCSCredentials string        `long:"gcs-credentials" env:"GCS_CREDENTIALS" description:"Service account JSON (or a path to it) used to sign result URLs"`
	SignExpiry     time.Duration `long:"sign-expiry" env:"SIGN_EXPIRY" default:"15m" description:"How long signed result URLs are valid"`
}

type optsEngine struct {
	Origin      string   `long:"origin" env:"ORIGIN" description:"Public base URL used to build links"`
	Region      string   `long:"region" env:"REGION" description:"Cloud region raw container results are accessible from"`
	MaxGranules int      `long:"max-granule-limit" env:"MAX_GRANULE_LIMIT" description:"Max granules a single job may process"`
	RawTypes    []string `long:"raw-types" env:"RAW_TYPES" env-delim:"," description:"MIME types served straight from the bucket"`
}

// setup loads the config file & builds a logger
func (o *optsGeneral) setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(o.LogMode, o.Debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func (o *optsDatabase) options(cfg *config.Config) *database.Options {
	url := o.DatabaseURL
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" {
		url = defaultDatabaseURL
	}
	return &database.Options{URL: url, Timeout: o.DatabaseTimeout}
}

func (o *optsQueue) options(cfg *config.Config) (*queue.Options, error) {
	tlsCfg, err := o.QueueTLS.Config()
	if err != nil {
		return nil, err
	}
	url := o.QueueURL
	if url == "" {
		url = cfg.QueueURL
	}
	return &queue.Options{URL: url, TLSConfig: tlsCfg, Concurrency: o.QueueConcurrency}, nil
}

func (o *optsSigner) signer(ctx context.Context) (*signer.GCS, error) {
	return signer.NewGCS(ctx, &signer.Options{CredentialsFile: o.GCSCredentials, Expiry: o.SignExpiry})
}

func (o *optsEngine) options(cfg *config.Config) *structs.Options {
	opts := &structs.Options{
		Origin:             o.Origin,
		Region:             o.Region,
		SystemGranuleLimit: o.MaxGranules,
		RawContainerTypes:  o.RawTypes,
	}
	cfg.Merge(opts)
	return opts
}

// apiOptions assembles everything but the signer
func apiOptions(cfg *config.Config, log *logger.Logger, db *optsDatabase, qu *optsQueue, eng *optsEngine) (*api.Options, error) {
	qOpts, err := qu.options(cfg)
	if err != nil {
		return nil, err
	}
	return &api.Options{
		Database: db.options(cfg),
		Queue:    qOpts,
		Engine:   eng.options(cfg),
		Logger:   log,
	}, nil
}
