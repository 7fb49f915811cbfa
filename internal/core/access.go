package core

import (
	"github.com/voidshard/conveyor/internal/utils"
	"github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

// authorize returns the job if caller owns it.
//
// Someone else's job is reported exactly as a missing one would be, so job IDs can't be discovered by guessing.
// Callers reject an empty identity as Unauthorized before loading the job (see requireCaller);
// the empty check here only keeps an unowned job from matching an empty caller.
func authorize(j *structs.Job, caller string) (*structs.Job, error) {
	if caller == "" || j.Owner != caller {
		return nil, errors.NotFound(msgNotFound, j.ID)
	}
	return j, nil
}

func validateJobID(id string) error {
	if !utils.IsValidID(id) {
		return errors.Validation("Invalid format for Job ID '%s'. Job ID must be a UUID.", id)
	}
	return nil
}

// requireCaller fails if there is no caller identity at all.
func requireCaller(caller string) error {
	if caller == "" {
		return errors.Unauthorized("Authentication is required")
	}
	return nil
}
