package structs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	progressMin = 0
	progressMax = 100
)

// Progress is a progress value exactly as an executor sent it.
//
// Executors send numbers or strings; we keep the raw text so that garbage is
// rejected in the same way as an out of range number, rather than failing to decode.
type Progress string

func NewProgress(i int) *Progress {
	p := Progress(strconv.Itoa(i))
	return &p
}

func (p *Progress) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Progress(s)
		return nil
	}
	*p = Progress(data)
	return nil
}

func (p Progress) MarshalJSON() ([]byte, error) {
	if _, ok := p.Int(); ok {
		return []byte(strings.TrimSpace(string(p))), nil
	}
	return json.Marshal(string(p))
}

// Int returns the progress as an int, and whether it is a whole number in [0,100].
func (p Progress) Int() (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(string(p)))
	if err != nil {
		return 0, false
	}
	return i, i >= progressMin && i <= progressMax
}

// Update is what an executor sends us about a job.
//
// One of: progress and/or item, status successful, status failed (+ error).
type Update struct {
	Progress *Progress `json:"progress,omitempty"`
	Item     *Link     `json:"item,omitempty"`
	Status   Status    `json:"status,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// IsTerminal is true if the update ends the job.
func (u *Update) IsTerminal() bool {
	return IsFinalStatus(u.Status)
}

// IsEmpty is true if the update carries nothing at all.
func (u *Update) IsEmpty() bool {
	return u.Progress == nil && u.Item == nil && u.Status == "" && u.Error == ""
}
