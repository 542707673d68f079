package types

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryID represents a UUIDv7 itinerary identifier.
// String alias enables type safety while maintaining JSON string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type ItineraryID string

// SegmentID represents a UUIDv7 segment identifier.
type SegmentID string

// NewItineraryID generates a UUIDv7 itinerary identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewItineraryID() ItineraryID {
	return ItineraryID(uuid.Must(uuid.NewV7()).String())
}

// NewSegmentID generates a UUIDv7 segment identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewSegmentID() SegmentID {
	return SegmentID(uuid.Must(uuid.NewV7()).String())
}

// ParseItineraryID validates and converts a string to ItineraryID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseItineraryID(s string) (ItineraryID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return ItineraryID(s), nil
}

// ParseSegmentID validates and converts a string to SegmentID.
func ParseSegmentID(s string) (SegmentID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return SegmentID(s), nil
}

// SegmentIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Enables chronological diagnostics without loading the segment.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func SegmentIDTime(id SegmentID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
