package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidRecord(t *testing.T) {
	err := InvalidRecord("Job progress must be between 0 and 100")

	assert.Equal(t, `Job record is invalid: ["Job progress must be between 0 and 100"]`, err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestInvalidRecordKeepsComparisons(t *testing.T) {
	err := InvalidRecord("bbox south must be <= north", "temporal start must be <= end & set")

	assert.Equal(t, `Job record is invalid: ["bbox south must be <= north","temporal start must be <= end & set"]`, err.Error())
}

func TestServerHidesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Server(cause, "Internal server error.")

	assert.Equal(t, "Internal server error.", err.Error())
	assert.True(t, errors.Is(err, ErrServer))
	assert.True(t, errors.Is(err, cause))
}

func TestKinds(t *testing.T) {
	cases := []struct {
		Name   string
		Given  error
		Kind   error
		Client bool
	}{
		{"Validation", Validation("bad %s", "id"), ErrValidation, true},
		{"NotFound", NotFound("Unable to find job %s", "x"), ErrNotFound, true},
		{"Terminal", TerminalState("done"), ErrTerminalState, true},
		{"Unauthorized", Unauthorized("who"), ErrUnauthorized, true},
		{"Server", Server(nil, "boom"), ErrServer, false},
		{"Wrapped", fmt.Errorf("outer: %w", NotFound("x")), ErrNotFound, true},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.True(t, errors.Is(c.Given, c.Kind))
			assert.Equal(t, c.Client, IsClientError(c.Given))
		})
	}
}
