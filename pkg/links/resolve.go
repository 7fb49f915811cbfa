package links

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	// RouteServiceResults is where proxied result links point, /service-results/{bucket}/{key}
	RouteServiceResults = "/service-results"

	RouteCloudAccessJSON = "/cloud-access"
	RouteCloudAccessSh   = "/cloud-access.sh"

	// schemeResults is the scheme of result URIs the proxy serves. Other storage URIs are
	// shown as they are.
	schemeResults = "s3"

	mimeJSON = "application/json"
	mimeSh   = "application/x-sh"
)

// Resolver turns stored links into links a user can follow.
type Resolver struct {
	opts *structs.Options
}

func NewResolver(opts *structs.Options) *Resolver {
	return &Resolver{opts: opts}
}

// ResolveAll resolves a job's links, in order. The input is not modified.
func (r *Resolver) ResolveAll(in []*structs.Link) []*structs.Link {
	out := []*structs.Link{}
	for _, l := range in {
		for _, resolved := range r.Resolve(l) {
			out = r.add(out, resolved)
		}
	}
	return out
}

// add is Merge without validation; stored links were validated on the way in.
func (r *Resolver) add(out []*structs.Link, l *structs.Link) []*structs.Link {
	switch l.Rel {
	case structs.RelSelf, structs.RelS3Access:
		for i, have := range out {
			if have.Rel == l.Rel {
				out[i] = l
				return out
			}
		}
	case structs.RelCloudAccessJSON, structs.RelCloudAccessSh:
		for _, have := range out {
			if have.Rel == l.Rel {
				return out
			}
		}
	}
	return append(out, l)
}

// Resolve returns the link(s) a user should see for l.
//
// A data link to a storage URI is either rewritten to point at our results proxy, or, for raw
// container types, kept and joined by links describing how to access the bucket directly.
func (r *Resolver) Resolve(l *structs.Link) []*structs.Link {
	cp := l.Copy()
	if cp.Rel != structs.RelData && cp.Rel != "" {
		return []*structs.Link{cp}
	}

	scheme, bucket, key, ok := ParseStorageURI(cp.Href)
	if !ok || scheme != schemeResults {
		return []*structs.Link{cp}
	}

	if r.opts.IsRawContainerType(cp.Type) {
		dir := path.Dir(key)
		prefix := fmt.Sprintf("%s://%s/", scheme, bucket)
		if dir != "." && dir != "/" {
			prefix = fmt.Sprintf("%s://%s/%s/", scheme, bucket, strings.Trim(dir, "/"))
		}
		return []*structs.Link{
			cp,
			{
				Href:  prefix,
				Rel:   structs.RelS3Access,
				Title: fmt.Sprintf("Results in AWS S3. Access from AWS %s with keys from %s", r.opts.Region, RouteCloudAccessSh),
			},
			{
				Href:  r.opts.Origin + RouteCloudAccessJSON,
				Rel:   structs.RelCloudAccessJSON,
				Type:  mimeJSON,
				Title: fmt.Sprintf("Access keys for s3:// URLs, usable from AWS %s (JSON format)", r.opts.Region),
			},
			{
				Href:  r.opts.Origin + RouteCloudAccessSh,
				Rel:   structs.RelCloudAccessSh,
				Type:  mimeSh,
				Title: fmt.Sprintf("Access keys for s3:// URLs, usable from AWS %s (Shell format)", r.opts.Region),
			},
		}
	}

	cp.Href = ServiceResultURL(r.opts.Origin, bucket, key)
	return []*structs.Link{cp}
}

// ServiceResultURL is <origin>/service-results/<bucket>/<key>.
func ServiceResultURL(origin, bucket, key string) string {
	parts := []string{url.PathEscape(bucket)}
	for _, p := range strings.Split(key, "/") {
		parts = append(parts, url.PathEscape(p))
	}
	return strings.TrimSuffix(origin, "/") + RouteServiceResults + "/" + strings.Join(parts, "/")
}

// StorageURI reverses ServiceResultURL's path, given the bucket & key it was built from.
// Only s3:// links are proxied, so the scheme is always s3.
func StorageURI(bucket, key string) string {
	return fmt.Sprintf("%s://%s/%s", schemeResults, bucket, key)
}
