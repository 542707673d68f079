// internal/rules/result.go
package rules

import (
	"fmt"
	"strings"

	"github.com/voyagehq/tripcheck/internal/types"
)

/*
 * Verdict types for rule evaluation.
 *
 * Severity is the engine's error taxonomy: error blocks the caller's
 * operation, warning proceeds with advisory metadata, info never blocks.
 *
 * Bucketing filters on Passed == false; a failed outcome lands in exactly
 * one of Errors/Warnings/Info per its rule's declared severity, and
 * Valid <=> len(Errors) == 0. Outcomes that pass but still carry an
 * info-severity message (geographic continuity) surface through Notes so
 * they are reachable without loosening the Passed filter.
 */

// Severity classifies a rule's outcome weight.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Operation identifies the mutation a context was built for.
type Operation string

const (
	OpAdd    Operation = "add"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Context is the sole input unit of rule evaluation.
// AllSegments must reflect the post-operation state: candidate included for
// add/update, excluded for delete.
type Context struct {
	Segment     types.Segment
	Itinerary   *types.Itinerary
	AllSegments []types.Segment
	Operation   Operation
}

// Outcome is a single rule's result for one context.
// Message, Suggestion, and RelatedSegmentIDs carry meaning only when Passed
// is false, except for info-severity rules that pass but still have
// something to say. Confidence is advisory [0,1] and never affects
// pass/fail.
type Outcome struct {
	Passed            bool              `json:"passed"`
	Message           string            `json:"message,omitempty"`
	Suggestion        string            `json:"suggestion,omitempty"`
	RelatedSegmentIDs []types.SegmentID `json:"related_segment_ids,omitempty"`
	Confidence        float64           `json:"confidence,omitempty"`
}

// ReportedOutcome is an Outcome enriched with the rule that produced it.
type ReportedOutcome struct {
	Outcome
	RuleID   string `json:"rule_id"`
	RuleName string `json:"rule_name"`
}

// Result is the aggregated verdict of one validation pass.
// Constructed fresh on every Validate call; never cached or persisted.
type Result struct {
	Valid    bool              `json:"valid"`
	Errors   []ReportedOutcome `json:"errors"`
	Warnings []ReportedOutcome `json:"warnings"`
	Info     []ReportedOutcome `json:"info"`

	// Notes collects passing-but-informative info-severity outcomes.
	// Never affects Valid.
	Notes []ReportedOutcome `json:"notes,omitempty"`
}

// Summarize produces a short human-readable digest of a verdict.
// "Validation passed" when all buckets are empty, otherwise a count line
// joining only the non-empty buckets.
func Summarize(r Result) string {
	if len(r.Errors) == 0 && len(r.Warnings) == 0 && len(r.Info) == 0 {
		return "Validation passed"
	}

	var parts []string
	if n := len(r.Errors); n > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", n))
	}
	if n := len(r.Warnings); n > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", n))
	}
	if n := len(r.Info); n > 0 {
		parts = append(parts, fmt.Sprintf("%d info message(s)", n))
	}

	status := "passed with warnings"
	if len(r.Errors) > 0 {
		status = "failed"
	}
	return fmt.Sprintf("Validation %s: %s", status, strings.Join(parts, ", "))
}
