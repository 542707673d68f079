// internal/rules/interval.go
package rules

import "time"

/*
 * Interval primitives.
 *
 * Pure time arithmetic shared by the rule catalog. Two overlap tests exist
 * because hotels overlap at day granularity (back-to-back stays hand off on
 * the same calendar day) while flights overlap at full timestamp precision.
 *
 * Overlap semantics: strict inequality (s1 < e2 && s2 < e1), so touching
 * endpoints never overlap. Symmetric in its two ranges.
 *
 * Overnight gap: a gap exceeding 240 minutes between consecutive segments is
 * treated as naturally separated (an overnight stay, not a missing transfer).
 */

// OvernightGapMinutes is the threshold above which a gap between segments is
// considered an overnight separation rather than a missing transfer.
const OvernightGapMinutes = 240

// DatesOverlap reports whether two ranges overlap at day granularity.
// Both ranges are truncated to midnight before the strict-inequality test,
// so ranges touching on a shared handoff day do not overlap.
func DatesOverlap(s1, e1, s2, e2 time.Time) bool {
	s1, e1 = truncateToDay(s1), truncateToDay(e1)
	s2, e2 = truncateToDay(s2), truncateToDay(e2)
	return s1.Before(e2) && s2.Before(e1)
}

// DatetimesOverlap reports whether two ranges overlap at full timestamp
// precision. Touching endpoints do not overlap.
func DatetimesOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// DurationMinutes returns end-start rounded to whole minutes.
// Negative results are possible and not clamped; callers decide meaning.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start).Round(time.Minute) / time.Minute)
}

// HasOvernightGap reports whether the gap from end to start exceeds the
// overnight threshold.
func HasOvernightGap(end, start time.Time) bool {
	return DurationMinutes(end, start) > OvernightGapMinutes
}

// truncateToDay drops the time-of-day component in the timestamp's location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
