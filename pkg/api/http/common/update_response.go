package common

import (
	"github.com/voidshard/conveyor/pkg/structs"
)

// UpdateResponse is returned to executors after an update is accepted.
type UpdateResponse struct {
	// JobID the update was for
	JobID string `json:"jobID"`

	// Status of the job after the update. Empty if the update was queued.
	Status structs.Status `json:"status,omitempty"`

	// Progress of the job after the update.
	Progress int `json:"progress"`

	// TaskID is set when the update was queued (ie. async=true)
	TaskID string `json:"taskID,omitempty"`
}

// ErrorResponse is the body of every non 2xx response.
//
// User facing routes set Description, the executor callback route sets Message.
type ErrorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
}
