// Package messages builds the human readable message shown on a job.
package messages

import (
	"fmt"
	"strings"

	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	Processing = "The job is being processed"
	Successful = "The job has completed successfully"
	Canceled   = "Canceled by user."

	// UnknownFailure is used when an executor reports failure without saying why
	UnknownFailure = "The job failed with an unknown error"
)

// CollectionWarning is added when a short name matched more than one collection.
func CollectionWarning(matched int, selectedID string) string {
	return fmt.Sprintf(
		"There were %d collections that matched the provided short name. %s was selected. "+
			"To use a different collection submit a new request specifying the desired CMR concept ID instead of the collection short name.",
		matched, selectedID,
	)
}

// LimitWarning returns a warning if fewer granules will be processed than were found.
//
// The caller's maxResults (if set) is reported as the reason whenever it is no larger than the
// system limit, otherwise the system limit is.
func LimitWarning(totalHits int, maxResults *int, systemLimit int) (string, bool) {
	limit := systemLimit
	callerBinds := false
	if maxResults != nil && *maxResults <= systemLimit {
		limit = *maxResults
		callerBinds = true
	}

	if totalHits <= limit {
		return "", false
	}

	if callerBinds {
		return fmt.Sprintf(
			"CMR query identified %d granules, but the request has been limited to process only the first %d granules because you requested %d maxResults.",
			totalHits, limit, *maxResults,
		), true
	}
	return fmt.Sprintf(
		"CMR query identified %d granules, but the request has been limited to process only the first %d granules because of system constraints.",
		totalHits, limit,
	), true
}

// Warnings returns the warnings for some search facts, collection warning first.
func Warnings(facts *structs.SearchFacts) []string {
	warnings := []string{}
	if facts == nil {
		return warnings
	}
	if facts.MatchedCollections > 1 && facts.SelectedCollectionID != "" {
		warnings = append(warnings, CollectionWarning(facts.MatchedCollections, facts.SelectedCollectionID))
	}
	if w, ok := LimitWarning(facts.TotalHits, facts.MaxResults, facts.SystemLimit); ok {
		warnings = append(warnings, w)
	}
	return warnings
}

// Compose returns a job's message.
//
// A terminal job shows only its terminal message. Otherwise any warnings are shown, or failing
// that a note that the job is being processed.
func Compose(job *structs.Job) string {
	if structs.IsFinalStatus(job.Status) {
		if job.TerminalMessage != "" {
			return job.TerminalMessage
		}
		return Terminal(job.Status, "")
	}

	warnings := Warnings(job.Facts)
	if len(warnings) == 0 {
		return Processing
	}
	return strings.Join(warnings, " ")
}

// Terminal returns the message frozen onto a job when it reaches status.
// errMsg is whatever the executor sent, if anything.
func Terminal(status structs.Status, errMsg string) string {
	switch status {
	case structs.SUCCESSFUL:
		return Successful
	case structs.CANCELED:
		return Canceled
	default:
		if strings.TrimSpace(errMsg) == "" {
			return UnknownFailure
		}
		return errMsg
	}
}
