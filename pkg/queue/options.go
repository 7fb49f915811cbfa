package queue

import (
	"crypto/tls"
	"strings"
)

const (
	schemeRedis  = "redis://"
	schemeRediss = "rediss://"
)

// Options are options for the queue.
type Options struct {
	// URL encodes how we'll connect to the queue.
	//
	// redis:// or rediss:// urls use asynq, anything else (including "") delivers
	// updates directly in process.
	URL string

	// TLSConfig needed to connect to the queue (optional).
	TLSConfig *tls.Config

	// Concurrency is how many updates a worker applies at once. Defaults to 10.
	Concurrency int
}

func (o *Options) SetDefaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = 10
	}
}

// IsRedis reports whether the URL names a redis server
func (o *Options) IsRedis() bool {
	return strings.HasPrefix(o.URL, schemeRedis) || strings.HasPrefix(o.URL, schemeRediss)
}
