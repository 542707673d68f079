// internal/rules/engine.go
package rules

import (
	"fmt"
	"sync"

	"github.com/voyagehq/tripcheck/internal/types"
)

/*
 * Rule registry and evaluator.
 *
 * The engine owns a mutable id->rule registry seeded with the core catalog
 * plus an options struct. Evaluation is a pure function of the context and
 * the registry snapshot: applicable rules run sequentially in registration
 * order and failed outcomes are bucketed by declared severity.
 *
 * Applicability filter (both layers must agree):
 *   1. Rule self-filter: Enabled flag, SegmentTypes membership.
 *   2. Engine config: disabled_rules set, enable_warnings, enable_info.
 *
 * Isolation: each rule executes under recover. A panicking rule degrades to
 * a synthetic error-severity outcome naming the rule instead of aborting
 * the whole pass; one buggy custom rule cannot take down evaluation.
 *
 * Concurrency: registry and config mutate under a RWMutex, so one shared
 * engine instance can serve concurrent callers. Each Validate call works on
 * a snapshot taken under the read lock.
 */

// Rule bundles identity, applicability, and a validation function.
// Rules are stateless and side-effect-free; Validate must be a pure
// function of its context.
type Rule struct {
	ID          string
	Name        string
	Description string
	Severity    Severity
	// SegmentTypes restricts applicability to a subset of variants.
	// Empty means the rule applies to every segment type.
	SegmentTypes []types.SegmentType
	Enabled      bool
	Validate     func(Context) Outcome
}

// AppliesTo reports whether the rule applies to the given segment type.
func (r Rule) AppliesTo(t types.SegmentType) bool {
	if len(r.SegmentTypes) == 0 {
		return true
	}
	for _, st := range r.SegmentTypes {
		if st == t {
			return true
		}
	}
	return false
}

// Config holds engine evaluation options.
type Config struct {
	// DisabledRules suppresses rules by id without unregistering them.
	DisabledRules []string `json:"disabled_rules"`
	// EnableWarnings gates warning-severity rules. Default true.
	EnableWarnings bool `json:"enable_warnings"`
	// EnableInfo gates info-severity rules. Default false.
	EnableInfo bool `json:"enable_info"`
}

// DefaultConfig returns the engine's default options.
func DefaultConfig() Config {
	return Config{
		EnableWarnings: true,
		EnableInfo:     false,
	}
}

// ConfigPatch is a partial config for shallow-merge updates.
// Nil fields leave the current value unchanged.
type ConfigPatch struct {
	DisabledRules  *[]string `json:"disabled_rules,omitempty"`
	EnableWarnings *bool     `json:"enable_warnings,omitempty"`
	EnableInfo     *bool     `json:"enable_info,omitempty"`
}

// Engine evaluates registered rules against contexts.
// Construct one per caller or share one instance; registry and config
// mutations are safe under concurrent use.
type Engine struct {
	mu    sync.RWMutex
	rules map[string]Rule
	// order preserves registration order so bucketing is deterministic
	// regardless of map iteration.
	order []string
	// seeded is the catalog size at construction; the custom-rule cap is
	// measured against it.
	seeded int
	cfg    Config
}

// NewEngine creates an engine seeded with the core catalog and default
// options overridden by cfg when non-nil.
func NewEngine(cfg *Config) *Engine {
	e := &Engine{
		rules: make(map[string]Rule),
		cfg:   DefaultConfig(),
	}
	if cfg != nil {
		e.cfg = *cfg
	}
	for _, r := range CoreRules() {
		e.register(r)
	}
	e.seeded = len(e.rules)
	return e
}

// RegisterRule upserts a rule by id. Re-registering an existing id replaces
// the rule in place (last registration wins) without changing its position
// in evaluation order; new ids append. The rule's own correctness is not
// validated, but registry growth is capped at MaxCustomRules beyond the
// seeded catalog.
func (e *Engine) RegisterRule(r Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.rules[r.ID]; !exists && len(e.rules) >= e.seeded+types.MaxCustomRules {
		return types.ErrTooManyRules
	}
	e.register(r)
	return nil
}

// register is RegisterRule without locking, for construction-time seeding.
func (e *Engine) register(r Rule) {
	if _, exists := e.rules[r.ID]; !exists {
		e.order = append(e.order, r.ID)
	}
	e.rules[r.ID] = r
}

// UnregisterRule removes a rule by id. No-op if absent.
func (e *Engine) UnregisterRule(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.rules[id]; !exists {
		return
	}
	delete(e.rules, id)
	for i, rid := range e.order {
		if rid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Rule returns the rule registered under id.
func (e *Engine) Rule(id string) (Rule, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.rules[id]
	return r, ok
}

// Rules returns every registered rule in registration order.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Rule, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.rules[id])
	}
	return out
}

// RulesForType returns rules applicable to the given segment type,
// including rules with no type restriction.
func (e *Engine) RulesForType(t types.SegmentType) []Rule {
	var out []Rule
	for _, r := range e.Rules() {
		if r.AppliesTo(t) {
			out = append(out, r)
		}
	}
	return out
}

// UpdateConfig shallow-merges a partial config into the current options.
func (e *Engine) UpdateConfig(patch ConfigPatch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if patch.DisabledRules != nil {
		e.cfg.DisabledRules = append([]string(nil), (*patch.DisabledRules)...)
	}
	if patch.EnableWarnings != nil {
		e.cfg.EnableWarnings = *patch.EnableWarnings
	}
	if patch.EnableInfo != nil {
		e.cfg.EnableInfo = *patch.EnableInfo
	}
}

// Config returns a defensive copy of the current options.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cfg := e.cfg
	cfg.DisabledRules = append([]string(nil), e.cfg.DisabledRules...)
	return cfg
}

// Validate evaluates every applicable rule against the context and
// aggregates outcomes into a verdict. Raises no errors itself; rule panics
// degrade to synthetic error outcomes.
func (e *Engine) Validate(ctx Context) Result {
	e.mu.RLock()
	cfg := e.cfg
	disabled := make(map[string]bool, len(cfg.DisabledRules))
	for _, id := range cfg.DisabledRules {
		disabled[id] = true
	}
	ordered := make([]Rule, 0, len(e.order))
	for _, id := range e.order {
		ordered = append(ordered, e.rules[id])
	}
	e.mu.RUnlock()

	result := Result{
		Valid:    true,
		Errors:   []ReportedOutcome{},
		Warnings: []ReportedOutcome{},
		Info:     []ReportedOutcome{},
	}

	for _, r := range ordered {
		if !e.applicable(r, cfg, disabled, ctx) {
			continue
		}

		outcome := runRule(r, ctx)
		reported := ReportedOutcome{Outcome: outcome, RuleID: r.ID, RuleName: r.Name}

		if outcome.Passed {
			// Passing info-severity outcomes that still carry a message
			// surface as notes; every other passing outcome is discarded.
			if r.Severity == SeverityInfo && outcome.Message != "" {
				result.Notes = append(result.Notes, reported)
			}
			continue
		}

		switch r.Severity {
		case SeverityError:
			result.Errors = append(result.Errors, reported)
		case SeverityWarning:
			result.Warnings = append(result.Warnings, reported)
		case SeverityInfo:
			result.Info = append(result.Info, reported)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// applicable applies both filter layers: the rule's own Enabled flag and
// type restriction, then the engine config's disabled set and severity
// toggles.
func (e *Engine) applicable(r Rule, cfg Config, disabled map[string]bool, ctx Context) bool {
	if !r.Enabled {
		return false
	}
	if disabled[r.ID] {
		return false
	}
	if r.Severity == SeverityWarning && !cfg.EnableWarnings {
		return false
	}
	if r.Severity == SeverityInfo && !cfg.EnableInfo {
		return false
	}
	return r.AppliesTo(ctx.Segment.Type)
}

// runRule executes one rule with panic isolation. A panicking rule reports
// as a failed outcome so the remaining rules still run.
func runRule(r Rule, ctx Context) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = Outcome{
				Passed:  false,
				Message: fmt.Sprintf("Rule %q panicked during evaluation: %v", r.ID, rec),
			}
		}
	}()
	if r.Validate == nil {
		return Outcome{Passed: true}
	}
	return r.Validate(ctx)
}

// ValidateAdd evaluates the candidate against the itinerary as it would
// exist after the segment is added.
func (e *Engine) ValidateAdd(it *types.Itinerary, seg types.Segment) Result {
	all := make([]types.Segment, 0, len(it.Segments)+1)
	all = append(all, it.Segments...)
	all = append(all, seg)
	return e.Validate(Context{Segment: seg, Itinerary: it, AllSegments: all, Operation: OpAdd})
}

// ValidateUpdate evaluates the candidate against the itinerary with the
// matching-id segment replaced in place.
func (e *Engine) ValidateUpdate(it *types.Itinerary, seg types.Segment) Result {
	all := make([]types.Segment, len(it.Segments))
	copy(all, it.Segments)
	replaced := false
	for i := range all {
		if all[i].ID == seg.ID {
			all[i] = seg
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, seg)
	}
	return e.Validate(Context{Segment: seg, Itinerary: it, AllSegments: all, Operation: OpUpdate})
}

// ValidateDelete evaluates the candidate against the itinerary with the
// matching-id segment removed, i.e. the post-delete world.
func (e *Engine) ValidateDelete(it *types.Itinerary, seg types.Segment) Result {
	all := make([]types.Segment, 0, len(it.Segments))
	for _, s := range it.Segments {
		if s.ID == seg.ID {
			continue
		}
		all = append(all, s)
	}
	return e.Validate(Context{Segment: seg, Itinerary: it, AllSegments: all, Operation: OpDelete})
}

// ValidateAll audits every segment in place against the unmodified full
// list, treated as an update context. Returns a verdict per segment id.
func (e *Engine) ValidateAll(it *types.Itinerary) map[types.SegmentID]Result {
	results := make(map[types.SegmentID]Result, len(it.Segments))
	for _, seg := range it.Segments {
		results[seg.ID] = e.Validate(Context{
			Segment:     seg,
			Itinerary:   it,
			AllSegments: it.Segments,
			Operation:   OpUpdate,
		})
	}
	return results
}
