package links

import (
	"math"
	"strings"
	"time"

	"github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	errBBox     = "Link bbox must be [west, south, east, north] with south <= north"
	errTemporal = "Link temporal must be ISO-8601 instants with start <= end"
	errHref     = "Link href must be given"
)

// Validate checks a link's fields, returning an InvalidRecord error listing every problem.
func Validate(l *structs.Link) error {
	if l == nil {
		return errors.InvalidRecord(errHref)
	}

	problems := []string{}
	if strings.TrimSpace(l.Href) == "" {
		problems = append(problems, errHref)
	}
	if l.BBox != nil && !validBBox(l.BBox) {
		problems = append(problems, errBBox)
	}
	if l.Temporal != nil && !validTemporal(l.Temporal) {
		problems = append(problems, errTemporal)
	}

	if len(problems) > 0 {
		return errors.InvalidRecord(problems...)
	}
	return nil
}

func validBBox(b structs.BBox) bool {
	if len(b) != 4 {
		return false
	}
	for _, f := range b {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	// west > east is fine, it crosses the antimeridian
	return b[1] <= b[3]
}

func validTemporal(t *structs.Temporal) bool {
	var start, end time.Time
	var err error
	if t.Start != "" {
		start, err = time.Parse(time.RFC3339Nano, t.Start)
		if err != nil {
			return false
		}
	}
	if t.End != "" {
		end, err = time.Parse(time.RFC3339Nano, t.End)
		if err != nil {
			return false
		}
	}
	if t.Start != "" && t.End != "" {
		return !start.After(end)
	}
	return true
}

// Merge returns existing with l added.
//
// A link with no relation is a data link. A self or s3-access link replaces the link of the
// same relation in place, anything else is appended. existing is never modified.
func Merge(existing []*structs.Link, l *structs.Link) ([]*structs.Link, error) {
	err := Validate(l)
	if err != nil {
		return nil, err
	}

	add := l.Copy()
	if add.Rel == "" {
		add.Rel = structs.RelData
	}

	out := make([]*structs.Link, len(existing), len(existing)+1)
	copy(out, existing)

	if add.Rel.IsSingular() {
		for i, have := range out {
			if have.Rel == add.Rel {
				out[i] = add
				return out, nil
			}
		}
	}

	return append(out, add), nil
}

// ParseStorageURI splits s3:// and gs:// URIs into bucket & key.
func ParseStorageURI(uri string) (scheme, bucket, key string, ok bool) {
	for _, s := range []string{"s3", "gs"} {
		prefix := s + "://"
		if !strings.HasPrefix(uri, prefix) {
			continue
		}
		bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, prefix), "/")
		if bucket == "" {
			return "", "", "", false
		}
		return s, bucket, key, true
	}
	return "", "", "", false
}
