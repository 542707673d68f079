package types

import "errors"

// Sentinel errors for TripCheck operations.
var (
	// ErrItineraryNotFound indicates the requested itinerary does not exist.
	ErrItineraryNotFound = errors.New("itinerary not found")

	// ErrSegmentNotFound indicates the requested segment does not exist on
	// the itinerary.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrUnknownSegmentType indicates a segment carries an unrecognized
	// type discriminator.
	ErrUnknownSegmentType = errors.New("unknown segment type")

	// ErrTooManySegments indicates the itinerary exceeds MaxSegmentsPerItinerary.
	ErrTooManySegments = errors.New("itinerary exceeds maximum segment count")

	// ErrSegmentNameTooLong indicates a segment name exceeds MaxSegmentNameLength.
	ErrSegmentNameTooLong = errors.New("segment name too long")

	// ErrTooManyRules indicates the rule registry exceeds MaxCustomRules.
	ErrTooManyRules = errors.New("too many registered rules")

	// ErrInvalidTimeOfDay indicates a time-of-day string is not HH:mm.
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:mm")
)
