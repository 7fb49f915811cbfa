package structs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Relation is the category a Link belongs to.
type Relation string

const (
	// RelSelf points at the job itself. A job has at most one.
	RelSelf Relation = "self"

	// RelData is a result artifact. Jobs accumulate these.
	RelData Relation = "data"

	// RelS3Access is the bucket prefix holding raw container results. A job has at most one.
	RelS3Access Relation = "s3-access"

	// RelCloudAccessJSON is the credentials endpoint (JSON format).
	RelCloudAccessJSON Relation = "cloud-access-json"

	// RelCloudAccessSh is the credentials endpoint (shell script format).
	RelCloudAccessSh Relation = "cloud-access-sh"
)

// IsSingular is true for relations where a later link replaces an earlier one.
func (r Relation) IsSingular() bool {
	return r == RelSelf || r == RelS3Access
}

// Link is a typed reference to a result artifact or auxiliary resource.
type Link struct {
	// Href may be a storage URI (s3://bucket/key) until it is resolved for a reader.
	Href string `json:"href"`

	Rel Relation `json:"rel"`

	// Type is an optional MIME type
	Type string `json:"type,omitempty"`

	Title string `json:"title,omitempty"`

	BBox BBox `json:"bbox,omitempty"`

	Temporal *Temporal `json:"temporal,omitempty"`
}

// Copy returns a shallow copy with its own BBox & Temporal.
func (l *Link) Copy() *Link {
	out := *l
	if l.BBox != nil {
		out.BBox = append(BBox{}, l.BBox...)
	}
	if l.Temporal != nil {
		tmp := *l.Temporal
		out.Temporal = &tmp
	}
	return &out
}

// BBox is [west, south, east, north].
//
// Executors send either a JSON array or a comma separated string ("-10,-10,10,10").
type BBox []float64

func (b *BBox) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		*b = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bbox must be an array of numbers or a comma separated string")
	}
	out := BBox{}
	for _, part := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("bbox component %q is not a number", part)
		}
		out = append(out, f)
	}
	*b = out
	return nil
}

// Temporal is a time range as ISO-8601 instants. Values are kept as sent.
//
// Executors send either an object or a comma separated string ("start,end").
type Temporal struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func (t *Temporal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return fmt.Errorf("temporal must be of the form start,end")
		}
		t.Start = strings.TrimSpace(parts[0])
		t.End = strings.TrimSpace(parts[1])
		return nil
	}
	type plain Temporal // avoid recursing into this func
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Temporal(p)
	return nil
}
