package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect bool
	}{
		{"Random", NewRandomID(), true},
		{"Stable", NewID(3), true},
		{"Empty", "", false},
		{"Garbage", "missing", false},
		{"NoHyphens", "8d8e1c7fa38b4e1c9c5b2b0b2d7c3a11", false},
		{"Braces", "{8d8e1c7f-a38b-4e1c-9c5b-2b0b2d7c3a11}", false},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, IsValidID(c.Given))
		})
	}
}

func TestNewID(t *testing.T) {
	assert.Equal(t, NewID(1), NewID(1))
	assert.NotEqual(t, NewID(1), NewID(2))
}
