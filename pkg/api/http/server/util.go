package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/voidshard/conveyor/pkg/api/http/common"
	cerr "github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	codePrefix = "conveyor."

	// maxBodyBytes bounds executor update bodies
	maxBodyBytes = 1 << 20
)

var (
	errmap map[int][]error = map[int][]error{
		http.StatusBadRequest: []error{
			cerr.ErrValidation,
		},
		http.StatusUnauthorized: []error{
			cerr.ErrUnauthorized,
		},
		http.StatusNotFound: []error{
			cerr.ErrNotFound,
		},
		http.StatusConflict: []error{
			cerr.ErrTerminalState,
			cerr.ErrETagMismatch,
		},
	}

	codes map[int]string = map[int]string{
		http.StatusBadRequest:          "RequestValidationError",
		http.StatusUnauthorized:        "UnauthorizedError",
		http.StatusNotFound:            "NotFoundError",
		http.StatusConflict:            "ConflictError",
		http.StatusInternalServerError: "ServerError",
	}
)

// mapError returns the http status code for a given error from conveyor, or
// http.StatusInternalServerError if the error is not recognised.
func mapError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for code, errs := range errmap {
		for _, e := range errs {
			if cerr.Is(err, e) {
				return code
			}
		}
	}
	return http.StatusInternalServerError
}

// errorBody builds the JSON error for err. Messages of unrecognised errors are never returned.
func errorBody(err error, callback bool) (int, *common.ErrorResponse) {
	status := mapError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error."
	}

	body := &common.ErrorResponse{Code: codePrefix + codes[status]}
	if callback {
		body.Message = msg
	} else {
		body.Description = "Error: " + msg
	}
	return status, body
}

// writeError writes an error in the format users expect
func writeError(w http.ResponseWriter, err error) {
	status, body := errorBody(err, false)
	writeJSON(w, status, body)
}

// writeCallbackError writes an error in the format executors expect
func writeCallbackError(w http.ResponseWriter, err error) {
	status, body := errorBody(err, true)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, obj interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(obj)
}

func unmarshalQuery(r *http.Request, out *structs.Query) error {
	q := r.URL.Query()

	if q.Has(common.ParamLimit) {
		limit, err := strconv.Atoi(q.Get(common.ParamLimit))
		if err != nil {
			return cerr.Validation("Parameter \"%s\" must be an integer", common.ParamLimit)
		}
		out.Limit = limit
	}

	if q.Has(common.ParamOffset) {
		offset, err := strconv.Atoi(q.Get(common.ParamOffset))
		if err != nil {
			return cerr.Validation("Parameter \"%s\" must be an integer", common.ParamOffset)
		}
		out.Offset = offset
	}

	if q.Has(common.ParamStatuses) {
		out.Statuses = []structs.Status{}
		for _, s := range q[common.ParamStatuses] {
			st := structs.ToStatus(s)
			if st == "" {
				return cerr.Validation("Invalid status '%s'", s)
			}
			out.Statuses = append(out.Statuses, st)
		}
	}

	out.Sanitize()
	return nil
}

// unmarshalUpdate reads an executor update from the request body (if any) and the
// status, error & progress query parameters. Query parameters win over the body.
func unmarshalUpdate(w http.ResponseWriter, r *http.Request) (*structs.Update, error) {
	u := &structs.Update{}

	if r.Body != nil {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			return nil, cerr.Validation("Unable to read request body: %v", err)
		}
		if len(bytes.TrimSpace(data)) > 0 {
			d := json.NewDecoder(bytes.NewReader(data))
			d.DisallowUnknownFields()
			err = d.Decode(u)
			if err != nil {
				return nil, cerr.Validation("Unable to parse update: %v", err)
			}
		}
	}

	q := r.URL.Query()
	if q.Has(common.ParamStatus) {
		u.Status = structs.Status(q.Get(common.ParamStatus))
	}
	if q.Has(common.ParamError) {
		u.Error = q.Get(common.ParamError)
	}
	if q.Has(common.ParamProgress) {
		p := structs.Progress(q.Get(common.ParamProgress))
		u.Progress = &p
	}

	return u, nil
}

// isTrue parses a boolean query parameter, absent or unparsable is false.
func isTrue(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
