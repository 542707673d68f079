// internal/rules/catalog.go
package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/voyagehq/tripcheck/internal/types"
)

/*
 * Core rule catalog.
 *
 * Eight independent, order-insensitive rules; no rule reads another rule's
 * outcome. Each rule self-filters via SegmentTypes and Enabled, and the
 * engine applies a second filter layer (config disabled set, severity
 * toggles) before execution.
 *
 * Tie-break policy: within a rule, the first offending match in AllSegments
 * order (insertion order unless the rule sorts by start time) is named in
 * the message; every match is still returned in RelatedSegmentIDs.
 */

// Stable rule identifiers. Callers use these to disable or override core
// rules; ids never change once published.
const (
	RuleNoFlightOverlap          = "no-flight-overlap"
	RuleNoHotelOverlap           = "no-hotel-overlap"
	RuleHotelActivityOverlap     = "hotel-activity-overlap-allowed"
	RuleActivityRequiresTransfer = "activity-requires-transfer"
	RuleSegmentWithinTripDates   = "segment-within-trip-dates"
	RuleChronologicalOrder       = "chronological-order"
	RuleReasonableDuration       = "reasonable-duration"
	RuleGeographicContinuity     = "geographic-continuity"
)

// durationLimit bounds a segment type's plausible length in minutes.
type durationLimit struct {
	Min int
	Max int
}

// durationLimits holds per-type plausibility bounds. A type absent from the
// table is exempt from the reasonable-duration rule.
var durationLimits = map[types.SegmentType]durationLimit{
	types.SegmentFlight:   {Min: 30, Max: 1200},
	types.SegmentActivity: {Min: 30, Max: 720},
	types.SegmentMeeting:  {Min: 15, Max: 480},
	types.SegmentTransfer: {Min: 5, Max: 360},
	types.SegmentHotel:    {Min: 720, Max: 43200},
	types.SegmentCustom:   {Min: 1, Max: 525600},
}

// CoreRules returns the full core catalog in canonical order.
// Each call returns fresh Rule values so one engine's overrides never leak
// into another engine instance.
func CoreRules() []Rule {
	return []Rule{
		{
			ID:           RuleNoFlightOverlap,
			Name:         "No flight overlap",
			Description:  "A flight must not overlap another flight or a hotel stay.",
			Severity:     SeverityError,
			SegmentTypes: []types.SegmentType{types.SegmentFlight},
			Enabled:      true,
			Validate:     validateNoFlightOverlap,
		},
		{
			ID:           RuleNoHotelOverlap,
			Name:         "No hotel overlap",
			Description:  "Hotel stays must not overlap at day granularity.",
			Severity:     SeverityError,
			SegmentTypes: []types.SegmentType{types.SegmentHotel},
			Enabled:      true,
			Validate:     validateNoHotelOverlap,
		},
		{
			ID:           RuleHotelActivityOverlap,
			Name:         "Hotel and activity overlap allowed",
			Description:  "Documents that activities during a hotel stay are intentional, not a conflict.",
			Severity:     SeverityInfo,
			SegmentTypes: []types.SegmentType{types.SegmentHotel, types.SegmentActivity},
			Enabled:      false,
			Validate:     validateHotelActivityOverlap,
		},
		{
			ID:           RuleActivityRequiresTransfer,
			Name:         "Activity requires transfer",
			Description:  "An activity at a different location than the preceding segment needs a transfer between them.",
			Severity:     SeverityWarning,
			SegmentTypes: []types.SegmentType{types.SegmentActivity},
			Enabled:      true,
			Validate:     validateActivityRequiresTransfer,
		},
		{
			ID:          RuleSegmentWithinTripDates,
			Name:        "Segment within trip dates",
			Description: "Segments must fall inside the itinerary's start and end dates when both are set.",
			Severity:    SeverityError,
			Enabled:     true,
			Validate:    validateSegmentWithinTripDates,
		},
		{
			ID:          RuleChronologicalOrder,
			Name:        "Chronological order",
			Description: "A segment must start strictly before it ends.",
			Severity:    SeverityError,
			Enabled:     true,
			Validate:    validateChronologicalOrder,
		},
		{
			ID:          RuleReasonableDuration,
			Name:        "Reasonable duration",
			Description: "Segment duration must fall within per-type plausibility bounds.",
			Severity:    SeverityWarning,
			Enabled:     true,
			Validate:    validateReasonableDuration,
		},
		{
			ID:          RuleGeographicContinuity,
			Name:        "Geographic continuity",
			Description: "Notes a location change to the next segment with no transfer between them.",
			Severity:    SeverityInfo,
			Enabled:     true,
			Validate:    validateGeographicContinuity,
		},
	}
}

// validateNoFlightOverlap fails when the candidate flight's datetime range
// overlaps any other flight or hotel segment at full precision.
func validateNoFlightOverlap(ctx Context) Outcome {
	var related []types.SegmentID
	var first *types.Segment

	for i, other := range ctx.AllSegments {
		if other.ID == ctx.Segment.ID {
			continue
		}
		if other.Type != types.SegmentFlight && other.Type != types.SegmentHotel {
			continue
		}
		if !DatetimesOverlap(ctx.Segment.StartTime, ctx.Segment.EndTime, other.StartTime, other.EndTime) {
			continue
		}
		if first == nil {
			first = &ctx.AllSegments[i]
		}
		related = append(related, other.ID)
	}

	if first == nil {
		return Outcome{Passed: true}
	}
	return Outcome{
		Passed:            false,
		Message:           fmt.Sprintf("Flight overlaps an existing %s segment", strings.ToLower(string(first.Type))),
		Suggestion:        "Adjust the flight times or remove the conflicting segment",
		RelatedSegmentIDs: related,
	}
}

// validateNoHotelOverlap fails when the candidate hotel's check-in/check-out
// range day-overlaps another hotel. Hotel vs. activity overlap is permitted
// by design (see hotel-activity-overlap-allowed).
func validateNoHotelOverlap(ctx Context) Outcome {
	var related []types.SegmentID
	var first *types.Segment

	for i, other := range ctx.AllSegments {
		if other.ID == ctx.Segment.ID || other.Type != types.SegmentHotel {
			continue
		}
		if !DatesOverlap(ctx.Segment.StartTime, ctx.Segment.EndTime, other.StartTime, other.EndTime) {
			continue
		}
		if first == nil {
			first = &ctx.AllSegments[i]
		}
		related = append(related, other.ID)
	}

	if first == nil {
		return Outcome{Passed: true}
	}
	return Outcome{
		Passed:            false,
		Message:           fmt.Sprintf("Hotel stay overlaps an existing stay at %s", hotelProperty(*first)),
		Suggestion:        "Adjust check-in or check-out dates so stays hand off on the same day",
		RelatedSegmentIDs: related,
	}
}

// hotelProperty names a hotel segment for messages, falling back to the
// segment name.
func hotelProperty(s types.Segment) string {
	if s.Hotel != nil && s.Hotel.Property != "" {
		return s.Hotel.Property
	}
	if s.Name != "" {
		return s.Name
	}
	return "another property"
}

// validateHotelActivityOverlap always passes; it exists so the intentional
// non-rule is visible in the catalog and can be enabled for documentation.
func validateHotelActivityOverlap(Context) Outcome {
	return Outcome{
		Passed:  true,
		Message: "Activities during a hotel stay are allowed and not treated as conflicts",
	}
}

// validateActivityRequiresTransfer warns when the segment immediately
// preceding the candidate activity is somewhere else and no transfer is
// nested in the gap. Skips when there is no predecessor, the predecessor is
// at the same location, or the gap is an overnight gap.
func validateActivityRequiresTransfer(ctx Context) Outcome {
	pred, ok := predecessorOf(ctx.AllSegments, ctx.Segment)
	if !ok {
		return Outcome{Passed: true}
	}
	if SameLocation(pred, ctx.Segment) {
		return Outcome{Passed: true}
	}
	if HasOvernightGap(pred.EndTime, ctx.Segment.StartTime) {
		return Outcome{Passed: true}
	}
	if transferNestedBetween(ctx.AllSegments, pred.EndTime, ctx.Segment.StartTime) {
		return Outcome{Passed: true}
	}

	return Outcome{
		Passed:            false,
		Message:           "No transfer between the previous segment and this activity at a different location",
		Suggestion:        "Add a transfer segment covering the gap before the activity",
		RelatedSegmentIDs: []types.SegmentID{pred.ID},
		Confidence:        0.8,
	}
}

// validateSegmentWithinTripDates fails when the candidate falls outside the
// itinerary's date bounds. Applies only when both bounds are set; trip dates
// carry date-only semantics so the comparison is at day granularity.
func validateSegmentWithinTripDates(ctx Context) Outcome {
	if ctx.Itinerary == nil || ctx.Itinerary.StartDate == nil || ctx.Itinerary.EndDate == nil {
		return Outcome{Passed: true}
	}

	tripStart := truncateToDay(*ctx.Itinerary.StartDate)
	tripEnd := truncateToDay(*ctx.Itinerary.EndDate)
	segStart := truncateToDay(ctx.Segment.StartTime)
	segEnd := truncateToDay(ctx.Segment.EndTime)

	if !segStart.Before(tripStart) && !segEnd.After(tripEnd) {
		return Outcome{Passed: true}
	}
	return Outcome{
		Passed: false,
		Message: fmt.Sprintf("Segment falls outside the trip dates (%s to %s)",
			tripStart.Format("2006-01-02"), tripEnd.Format("2006-01-02")),
		Suggestion: "Move the segment inside the trip dates or extend the trip",
	}
}

// validateChronologicalOrder fails when start is not strictly before end.
func validateChronologicalOrder(ctx Context) Outcome {
	if ctx.Segment.StartTime.Before(ctx.Segment.EndTime) {
		return Outcome{Passed: true}
	}
	return Outcome{
		Passed:     false,
		Message:    "Segment must start before it ends",
		Suggestion: "Swap or correct the start and end times",
	}
}

// validateReasonableDuration warns when duration falls outside the per-type
// bounds. Types absent from the limit table pass unconditionally.
func validateReasonableDuration(ctx Context) Outcome {
	limit, ok := durationLimits[ctx.Segment.Type]
	if !ok {
		return Outcome{Passed: true}
	}

	d := DurationMinutes(ctx.Segment.StartTime, ctx.Segment.EndTime)
	if d >= limit.Min && d <= limit.Max {
		return Outcome{Passed: true}
	}

	return Outcome{
		Passed: false,
		Message: fmt.Sprintf("%s duration of %d minutes is outside the expected range",
			titled(ctx.Segment.Type), d),
		Suggestion: fmt.Sprintf("Expected between %d and %d minutes for a %s segment",
			limit.Min, limit.Max, strings.ToLower(string(ctx.Segment.Type))),
		Confidence: 0.7,
	}
}

// titled renders a segment type for message prose ("FLIGHT" -> "Flight").
func titled(t types.SegmentType) string {
	s := strings.ToLower(string(t))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// validateGeographicContinuity notes a location change to the immediate
// successor with no transfer nested between them. Always passes; the note
// surfaces through the verdict's Notes channel, never as a failure.
func validateGeographicContinuity(ctx Context) Outcome {
	succ, ok := successorOf(ctx.AllSegments, ctx.Segment)
	if !ok {
		return Outcome{Passed: true}
	}

	_, segOK := ctx.Segment.PrimaryLocation()
	_, succOK := succ.PrimaryLocation()
	if !segOK || !succOK || SameLocation(ctx.Segment, succ) {
		return Outcome{Passed: true}
	}
	if transferNestedBetween(ctx.AllSegments, ctx.Segment.EndTime, succ.StartTime) {
		return Outcome{Passed: true}
	}

	return Outcome{
		Passed:            true,
		Message:           "The next segment is at a different location with no transfer in between",
		Suggestion:        "Consider adding a transfer to the next segment's location",
		RelatedSegmentIDs: []types.SegmentID{succ.ID},
		Confidence:        0.6,
	}
}

// predecessorOf returns the segment immediately preceding the candidate in
// start-time order. The candidate is located by id so the helper works for
// both add (candidate appended) and update (candidate replaced) contexts.
func predecessorOf(all []types.Segment, candidate types.Segment) (types.Segment, bool) {
	ordered := sortedByStart(all)
	for i, s := range ordered {
		if s.ID == candidate.ID {
			if i == 0 {
				return types.Segment{}, false
			}
			return ordered[i-1], true
		}
	}
	return types.Segment{}, false
}

// successorOf returns the segment immediately following the candidate in
// start-time order.
func successorOf(all []types.Segment, candidate types.Segment) (types.Segment, bool) {
	ordered := sortedByStart(all)
	for i, s := range ordered {
		if s.ID == candidate.ID {
			if i == len(ordered)-1 {
				return types.Segment{}, false
			}
			return ordered[i+1], true
		}
	}
	return types.Segment{}, false
}

// sortedByStart returns a copy of segments in ascending start-time order.
// Stable sort preserves insertion order for equal start times, keeping the
// first-offending-match tie-break deterministic.
func sortedByStart(all []types.Segment) []types.Segment {
	ordered := make([]types.Segment, len(all))
	copy(ordered, all)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})
	return ordered
}

// transferNestedBetween reports whether a transfer segment's interval is
// fully contained in [from, to].
func transferNestedBetween(all []types.Segment, from, to time.Time) bool {
	for _, s := range all {
		if s.Type != types.SegmentTransfer {
			continue
		}
		if !s.StartTime.Before(from) && !s.EndTime.After(to) {
			return true
		}
	}
	return false
}
