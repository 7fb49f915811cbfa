package signer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/voidshard/conveyor/pkg/links"
)

const (
	defaultExpiry = 15 * time.Minute

	// ParamUserID is added to signed URLs with the identity they were issued to
	ParamUserID = "A-userid"
)

// Options for the GCS signer.
type Options struct {
	// CredentialsFile is a service account JSON file, or the JSON itself.
	// If empty the environment's default credentials are used.
	CredentialsFile string

	// Expiry is how long signed URLs are valid. Defaults to 15 minutes.
	Expiry time.Duration

	// GoogleAccessID & PrivateKey sign locally instead of via the credentials (optional)
	GoogleAccessID string
	PrivateKey     []byte
}

func (o *Options) SetDefaults() {
	if o.Expiry <= 0 {
		o.Expiry = defaultExpiry
	}
}

// GCS signs URLs for objects in Google Cloud Storage using V4 signatures.
type GCS struct {
	opts   *Options
	client *storage.Client
}

func NewGCS(ctx context.Context, opts *Options, extra ...option.ClientOption) (*GCS, error) {
	opts.SetDefaults()

	copts := clientOptions(opts.CredentialsFile)
	copts = append(copts, option.WithScopes(storage.ScopeReadOnly))
	copts = append(copts, extra...)

	client, err := storage.NewClient(ctx, copts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{opts: opts, client: client}, nil
}

func clientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (g *GCS) Sign(ctx context.Context, uri, caller string) (string, error) {
	_, bucket, key, ok := links.ParseStorageURI(uri)
	if !ok || key == "" {
		return "", fmt.Errorf("not a storage object uri: %s", uri)
	}

	sopts := &storage.SignedURLOptions{
		Method:          http.MethodGet,
		Scheme:          storage.SigningSchemeV4,
		Expires:         timeNow().Add(g.opts.Expiry),
		QueryParameters: url.Values{ParamUserID: []string{caller}},
	}
	if g.opts.GoogleAccessID != "" {
		sopts.GoogleAccessID = g.opts.GoogleAccessID
		sopts.PrivateKey = g.opts.PrivateKey
	}

	return g.client.Bucket(bucket).SignedURL(key, sopts)
}

func (g *GCS) Close() error {
	return g.client.Close()
}

var timeNow = time.Now
