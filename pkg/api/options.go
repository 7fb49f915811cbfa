package api

import (
	"github.com/voidshard/conveyor/internal/logger"
	"github.com/voidshard/conveyor/pkg/database"
	"github.com/voidshard/conveyor/pkg/queue"
	"github.com/voidshard/conveyor/pkg/signer"
	"github.com/voidshard/conveyor/pkg/structs"
)

// Options passed to New.
type Options struct {
	Database *database.Options
	Queue    *queue.Options

	// Signer issues signed URLs for stored results. Processes that only apply updates
	// may leave it nil.
	Signer signer.Signer

	// Engine configures messages, link resolution & limits
	Engine *structs.Options

	// Logger defaults to a no-op logger
	Logger *logger.Logger
}

func (o *Options) SetDefaults() {
	if o.Database == nil {
		o.Database = &database.Options{URL: "sqlite://:memory:"}
	}
	if o.Queue == nil {
		o.Queue = &queue.Options{}
	}
	if o.Engine == nil {
		o.Engine = &structs.Options{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	o.Database.SetDefaults()
	o.Queue.SetDefaults()
	o.Engine.SetDefaults()
}
