// Package id generates and validates identifiers that are not assigned by the
// database.
package id

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

const maxClientIDLength = 64

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// NewSectionID returns a random case section identifier.
func NewSectionID() string {
	return uuid.NewString()
}

// NewRequestID returns a random request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// ValidateClientID checks an identifier supplied by a client, such as a
// section ID chosen by an offline-capable frontend.
func ValidateClientID(id string) error {
	if len(id) == 0 || len(id) > maxClientIDLength {
		return fmt.Errorf("id must be between 1 and %d characters", maxClientIDLength)
	}
	if !clientIDPattern.MatchString(id) {
		return fmt.Errorf("id %q contains invalid characters", id)
	}
	return nil
}
