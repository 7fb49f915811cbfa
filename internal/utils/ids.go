package utils

import (
	"github.com/google/uuid"
)

// NewRandomID returns a new random (v4) UUID string
func NewRandomID() string {
	return uuid.New().String()
}

// IsValidID reports whether s is a UUID in canonical form
func IsValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// NewID returns a stable UUID for i. Used in tests.
func NewID(i int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)}).String()
}
