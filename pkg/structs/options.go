package structs

import (
	"time"
)

const (
	defaultOrigin             = "http://localhost:3000"
	defaultRegion             = "us-west-2"
	defaultSystemGranuleLimit = 350
	defaultTimeout            = 10 * time.Second
)

// DefaultRawContainerTypes are MIME types whose results are read straight from the bucket
var DefaultRawContainerTypes = []string{"application/x-zarr"}

// Options configure the job engine.
type Options struct {
	// Origin is our public base URL, used to build links
	Origin string `yaml:"origin"`

	// Region is the cloud region raw container results can be accessed from
	Region string `yaml:"region"`

	RawContainerTypes []string `yaml:"raw_container_types"`

	// SystemGranuleLimit is the max granules a single job may process
	SystemGranuleLimit int `yaml:"system_granule_limit"`

	// Timeout bounds each persistence operation
	Timeout time.Duration `yaml:"timeout"`
}

func (o *Options) SetDefaults() {
	if o.Origin == "" {
		o.Origin = defaultOrigin
	}
	if o.Region == "" {
		o.Region = defaultRegion
	}
	if len(o.RawContainerTypes) == 0 {
		o.RawContainerTypes = DefaultRawContainerTypes
	}
	if o.SystemGranuleLimit <= 0 {
		o.SystemGranuleLimit = defaultSystemGranuleLimit
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
}

// IsRawContainerType reports whether results of this MIME type are accessed as a bucket prefix.
func (o *Options) IsRawContainerType(mime string) bool {
	for _, t := range o.RawContainerTypes {
		if t == mime {
			return true
		}
	}
	return false
}
