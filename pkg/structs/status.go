package structs

import (
	"strings"
)

type Status string

const (
	// transient states
	ACCEPTED Status = "accepted"
	RUNNING  Status = "running"

	// end states
	SUCCESSFUL Status = "successful"
	FAILED     Status = "failed"
	CANCELED   Status = "canceled"
)

func IsFinalStatus(status Status) bool {
	switch status {
	case SUCCESSFUL, FAILED, CANCELED:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a job may move from one status to another.
//
// accepted -> running -> {successful, failed, canceled}, with running -> running allowed.
// A job that is still accepted may also end directly (ie. it failed before reporting progress).
func CanTransition(from, to Status) bool {
	switch from {
	case ACCEPTED:
		return to == RUNNING || IsFinalStatus(to)
	case RUNNING:
		return to == RUNNING || IsFinalStatus(to)
	default:
		return false
	}
}

func ToStatus(s string) Status {
	switch strings.ToLower(s) {
	case "accepted":
		return ACCEPTED
	case "running":
		return RUNNING
	case "successful":
		return SUCCESSFUL
	case "failed":
		return FAILED
	case "canceled":
		return CANCELED
	default:
		return ""
	}
}
