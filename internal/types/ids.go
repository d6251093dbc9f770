package types

import (
	"time"

	"github.com/google/uuid"
)

// ImportID identifies one dictionary import batch.
type ImportID string

// NewImportID generates a UUIDv7 import identifier, ordered by creation time.
func NewImportID() ImportID {
	return ImportID(uuid.Must(uuid.NewV7()).String())
}

// ParseImportID validates and converts a string to ImportID.
func ParseImportID(s string) (ImportID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return ImportID(s), nil
}

// ImportIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs.
func ImportIDTime(id ImportID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
