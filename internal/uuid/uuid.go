// Package uuid generates and validates the string UUIDs used as primary
// keys. Version 7 keeps insertion order roughly matching creation time.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. Falls back to a random v4 if the
// system clock refuses to cooperate.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
