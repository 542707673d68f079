// internal/timecheck/validate.go

// Package timecheck flags segments whose clock time contradicts either a
// name-implied convention ("late night", "breakfast") or type-specific
// business-hour norms (hotel check-in, attraction opening hours).
//
// The validator is stateless and per-segment: two layers run in strict
// order, and a keyword match short-circuits the type layer entirely. It has
// no dependency on the rule engine; callers invoke it separately and feed
// the suggestion to the UI or the conversational agent.
package timecheck

import (
	"fmt"

	"github.com/voyagehq/tripcheck/internal/types"
)

// Severity classifies a time issue. Mirrors the rule engine's taxonomy but
// is declared independently; the two subsystems share no code.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue categories reported in Result.Category and tallied by Summarize.
const (
	CategoryKeyword    = "name-keyword"
	CategoryDining     = "dining-hours"
	CategoryAttraction = "attraction-hours"
	CategoryFlight     = "red-eye-flight"
	CategoryHotel      = "hotel-check-in"
	CategoryTransfer   = "overnight-transfer"
)

// Result is the per-segment outcome of a time check, produced fresh per
// call. Severity, Issue, SuggestedTime, and Category are set only when
// Valid is false.
type Result struct {
	Valid         bool     `json:"valid"`
	Severity      Severity `json:"severity,omitempty"`
	Issue         string   `json:"issue,omitempty"`
	SuggestedTime string   `json:"suggested_time,omitempty"` // HH:mm
	Category      string   `json:"category,omitempty"`
}

// ValidateSegmentTime checks a single segment's start time against the
// keyword layer, then the type-specific layer. At most one issue is
// returned; the first matching keyword decides and skips the type layer.
func ValidateSegmentTime(seg types.Segment) Result {
	hour := seg.StartTime.Hour()

	if seg.Name != "" {
		if kw, ok := matchKeyword(seg.Name); ok {
			if kw.inWindow(hour) {
				return Result{Valid: true}
			}
			return Result{
				Valid:    false,
				Severity: SeverityWarning,
				Issue: fmt.Sprintf("%q suggests %s, but the segment starts at %02d:%02d",
					kw.Keyword, kw.Description, hour, seg.StartTime.Minute()),
				SuggestedTime: kw.SuggestedTime,
				Category:      CategoryKeyword,
			}
		}
	}

	return validateTypeHours(seg, hour)
}

// SegmentIssue pairs a segment with its failed time check.
type SegmentIssue struct {
	Segment types.Segment `json:"segment"`
	Result  Result        `json:"result"`
}

// ValidateItineraryTimes maps the per-segment check over a list and returns
// only the segments with an issue.
func ValidateItineraryTimes(segments []types.Segment) []SegmentIssue {
	var issues []SegmentIssue
	for _, seg := range segments {
		if r := ValidateSegmentTime(seg); !r.Valid {
			issues = append(issues, SegmentIssue{Segment: seg, Result: r})
		}
	}
	return issues
}

// Summary tallies time issues by category and severity.
type Summary struct {
	Total      int              `json:"total"`
	ByCategory map[string]int   `json:"by_category"`
	BySeverity map[Severity]int `json:"by_severity"`
}

// Summarize aggregates a batch of issues into totals.
func Summarize(issues []SegmentIssue) Summary {
	s := Summary{
		ByCategory: make(map[string]int),
		BySeverity: make(map[Severity]int),
	}
	for _, issue := range issues {
		s.Total++
		s.ByCategory[issue.Result.Category]++
		s.BySeverity[issue.Result.Severity]++
	}
	return s
}
