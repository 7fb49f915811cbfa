package signer

import (
	"context"
)

// Signer produces temporary URLs for objects in storage.
type Signer interface {
	// Sign returns a time limited URL for the given storage URI (s3://bucket/key or gs://bucket/key).
	//
	// caller is the identity the URL is issued to, so the permission check happens when the
	// URL is used, not when the result was written.
	Sign(ctx context.Context, uri, caller string) (string, error)
}
