package types

import "time"

// SegmentWarning is advisory validation metadata attached to an itinerary by
// the last mutating operation. Warnings never block persistence; they are
// recomputed and replaced on every mutation.
type SegmentWarning struct {
	SegmentID SegmentID `json:"segment_id"`
	RuleID    string    `json:"rule_id"`
	Message   string    `json:"message"`
}

// Itinerary owns an ordered-by-insertion list of segments plus optional
// trip-date bounds. StartDate and EndDate carry date-only semantics; time
// components are ignored by consumers.
//
// The validation core never mutates an itinerary; it is loaded, validated
// against, and persisted by the storage layer.
type Itinerary struct {
	ID        ItineraryID      `json:"id"`
	TenantID  string           `json:"tenant_id,omitempty"`
	Name      string           `json:"name"`
	StartDate *time.Time       `json:"start_date,omitempty"`
	EndDate   *time.Time       `json:"end_date,omitempty"`
	Segments  []Segment        `json:"segments"`
	Warnings  []SegmentWarning `json:"warnings,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// FindSegment returns the segment with the given id and its index in
// insertion order. Returns index -1 when absent.
func (it *Itinerary) FindSegment(id SegmentID) (Segment, int) {
	for i, s := range it.Segments {
		if s.ID == id {
			return s, i
		}
	}
	return Segment{}, -1
}

// Resource limits enforced at the API boundary to keep validation passes
// bounded and cheap.
const (
	// MaxSegmentsPerItinerary bounds rule evaluation cost, which is linear
	// in segment count per rule.
	MaxSegmentsPerItinerary = 500

	// MaxSegmentNameLength bounds keyword scanning in the time validator.
	MaxSegmentNameLength = 256

	// MaxCustomRules bounds registry growth from caller-registered rules.
	MaxCustomRules = 128
)
