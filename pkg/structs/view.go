package structs

import (
	"time"
)

// JobView is a job as it is shown to its owner.
type JobView struct {
	JobID            string    `json:"jobID"`
	Username         string    `json:"username"`
	Status           Status    `json:"status"`
	Message          string    `json:"message"`
	Progress         int       `json:"progress"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Links            []*Link   `json:"links"`
	Request          string    `json:"request"`
	NumInputGranules *int      `json:"numInputGranules,omitempty"`
}

// JobList is a page of jobs.
type JobList struct {
	Count int        `json:"count"`
	Jobs  []*JobView `json:"jobs"`
}
