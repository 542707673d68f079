package rules

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/voyagehq/tripcheck/internal/types"
)

func TestEngineSeedsCoreCatalog(t *testing.T) {
	e := NewEngine(nil)

	got := e.Rules()
	want := CoreRules()
	if len(got) != len(want) {
		t.Fatalf("len(Rules()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("Rules()[%d].ID = %s, want %s", i, got[i].ID, want[i].ID)
		}
	}
}

func mustRegister(t *testing.T, e *Engine, r Rule) {
	t.Helper()
	if err := e.RegisterRule(r); err != nil {
		t.Fatalf("RegisterRule(%s) failed: %v", r.ID, err)
	}
}

func TestRegisterRule(t *testing.T) {
	t.Run("new rule appends", func(t *testing.T) {
		e := NewEngine(nil)
		mustRegister(t, e, Rule{ID: "custom-1", Name: "Custom", Severity: SeverityWarning, Enabled: true})

		rs := e.Rules()
		if rs[len(rs)-1].ID != "custom-1" {
			t.Errorf("last rule = %s, want custom-1", rs[len(rs)-1].ID)
		}
	})

	t.Run("re-registering replaces in place", func(t *testing.T) {
		e := NewEngine(nil)
		before := len(e.Rules())

		mustRegister(t, e, Rule{
			ID:       RuleReasonableDuration,
			Name:     "Relaxed duration",
			Severity: SeverityInfo,
			Enabled:  true,
			Validate: func(Context) Outcome { return Outcome{Passed: true} },
		})

		if got := len(e.Rules()); got != before {
			t.Errorf("len(Rules()) = %d, want %d after replacement", got, before)
		}
		r, ok := e.Rule(RuleReasonableDuration)
		if !ok {
			t.Fatal("Rule() reported rule missing after replacement")
		}
		if r.Name != "Relaxed duration" {
			t.Errorf("Name = %q, want replacement to win", r.Name)
		}
	})

	t.Run("override silences a core rule", func(t *testing.T) {
		e := NewEngine(nil)
		mustRegister(t, e, Rule{
			ID:       RuleNoFlightOverlap,
			Name:     "No flight overlap",
			Severity: SeverityError,
			Enabled:  true,
			Validate: func(Context) Outcome { return Outcome{Passed: true} },
		})

		it := itinerary(flight("f1", day(10, 14, 0), day(10, 17, 0), "Paris", "Rome"))
		res := e.ValidateAdd(it, flight("f2", day(10, 15, 0), day(10, 18, 0), "Paris", "Oslo"))

		if !res.Valid {
			t.Errorf("Valid = false, want true once the core rule is overridden")
		}
	})
}

func TestRegisterRuleCap(t *testing.T) {
	e := NewEngine(nil)
	for i := 0; i < types.MaxCustomRules; i++ {
		mustRegister(t, e, Rule{
			ID:       fmt.Sprintf("custom-%d", i),
			Name:     "Custom",
			Severity: SeverityInfo,
			Enabled:  true,
			Validate: func(Context) Outcome { return Outcome{Passed: true} },
		})
	}

	err := e.RegisterRule(Rule{ID: "one-too-many", Name: "Overflow", Severity: SeverityInfo, Enabled: true})
	if !errors.Is(err, types.ErrTooManyRules) {
		t.Fatalf("RegisterRule error = %v, want ErrTooManyRules", err)
	}

	// Replacing an existing id is an upsert and stays allowed at the cap.
	if err := e.RegisterRule(Rule{ID: "custom-0", Name: "Replaced", Severity: SeverityInfo, Enabled: true}); err != nil {
		t.Errorf("RegisterRule replacement at cap failed: %v", err)
	}
}

func TestUnregisterRule(t *testing.T) {
	e := NewEngine(nil)
	e.UnregisterRule(RuleChronologicalOrder)

	if _, ok := e.Rule(RuleChronologicalOrder); ok {
		t.Error("Rule() found rule after UnregisterRule")
	}

	seg := activity("a1", day(10, 12, 0), day(10, 10, 0), "Paris")
	res := e.ValidateAdd(itinerary(), seg)
	if ids := failedRuleIDs(res); ids[RuleChronologicalOrder] {
		t.Error("unregistered rule still produced an outcome")
	}

	// Removing an unknown id is a no-op.
	e.UnregisterRule("does-not-exist")
}

func TestRulesForType(t *testing.T) {
	e := NewEngine(nil)

	for _, r := range e.RulesForType(types.SegmentMeeting) {
		if len(r.SegmentTypes) != 0 && !r.AppliesTo(types.SegmentMeeting) {
			t.Errorf("RulesForType returned %s, which does not apply to meetings", r.ID)
		}
		if r.ID == RuleNoFlightOverlap {
			t.Error("RulesForType(meeting) returned the flight-only rule")
		}
	}

	found := false
	for _, r := range e.RulesForType(types.SegmentFlight) {
		if r.ID == RuleNoFlightOverlap {
			found = true
		}
	}
	if !found {
		t.Error("RulesForType(flight) missing no-flight-overlap")
	}
}

func TestConfigFiltering(t *testing.T) {
	overlapping := func() (*types.Itinerary, types.Segment) {
		it := itinerary(
			flight("f1", day(10, 8, 0), day(10, 10, 0), "Paris", "Lyon"),
		)
		// Different city, no transfer, short flight: trips the transfer
		// warning without erroring.
		return it, activity("a1", day(10, 11, 0), day(10, 13, 0), "Annecy")
	}

	t.Run("warnings enabled by default", func(t *testing.T) {
		it, seg := overlapping()
		res := NewEngine(nil).ValidateAdd(it, seg)
		if !res.Valid {
			t.Fatalf("Valid = false, want true (warnings never block): %+v", res.Errors)
		}
		if !failedRuleIDs(res)[RuleActivityRequiresTransfer] {
			t.Error("expected activity-requires-transfer warning, got none")
		}
	})

	t.Run("enable_warnings false suppresses warning rules", func(t *testing.T) {
		it, seg := overlapping()
		res := NewEngine(&Config{EnableWarnings: false}).ValidateAdd(it, seg)
		if len(res.Warnings) != 0 {
			t.Errorf("len(Warnings) = %d, want 0", len(res.Warnings))
		}
	})

	t.Run("disabled_rules suppresses by id", func(t *testing.T) {
		it, seg := overlapping()
		e := NewEngine(&Config{
			DisabledRules:  []string{RuleActivityRequiresTransfer},
			EnableWarnings: true,
		})
		res := e.ValidateAdd(it, seg)
		if failedRuleIDs(res)[RuleActivityRequiresTransfer] {
			t.Error("disabled rule still produced an outcome")
		}
	})

	t.Run("errors ignore severity toggles", func(t *testing.T) {
		e := NewEngine(&Config{EnableWarnings: false, EnableInfo: false})
		it := itinerary(flight("f1", day(10, 14, 0), day(10, 17, 0), "Paris", "Rome"))
		res := e.ValidateAdd(it, flight("f2", day(10, 15, 0), day(10, 18, 0), "Paris", "Oslo"))
		if res.Valid {
			t.Error("Valid = true, want false; error rules are never gated")
		}
	})
}

func TestUpdateConfig(t *testing.T) {
	e := NewEngine(nil)

	off := false
	e.UpdateConfig(ConfigPatch{EnableWarnings: &off})

	cfg := e.Config()
	if cfg.EnableWarnings {
		t.Error("EnableWarnings = true after patch, want false")
	}
	if cfg.EnableInfo {
		t.Error("EnableInfo flipped by an unrelated patch")
	}

	// Mutating the returned copy must not affect the engine.
	cfg.DisabledRules = append(cfg.DisabledRules, "whatever")
	if got := e.Config().DisabledRules; len(got) != 0 {
		t.Errorf("DisabledRules = %v, want engine state untouched", got)
	}
}

func TestNotesChannel(t *testing.T) {
	e := NewEngine(&Config{EnableWarnings: true, EnableInfo: true})
	it := itinerary(
		activity("a1", day(10, 9, 0), day(10, 11, 0), "Lyon"),
		activity("a2", day(10, 12, 0), day(10, 14, 0), "Annecy"),
	)

	res := e.Validate(Context{
		Segment:     it.Segments[0],
		Itinerary:   it,
		AllSegments: it.Segments,
		Operation:   OpUpdate,
	})

	if !res.Valid {
		t.Fatalf("Valid = false, want true: %+v", res.Errors)
	}
	var note *ReportedOutcome
	for i := range res.Notes {
		if res.Notes[i].RuleID == RuleGeographicContinuity {
			note = &res.Notes[i]
		}
	}
	if note == nil {
		t.Fatal("Notes missing the geographic continuity note")
	}
	if note.Message == "" || !note.Passed {
		t.Errorf("note = %+v, want a passing outcome with a message", note)
	}
	if len(res.Info) != 0 {
		t.Errorf("len(Info) = %d, want 0; passing notes never land in Info", len(res.Info))
	}
}

func TestPanicIsolation(t *testing.T) {
	e := NewEngine(nil)
	mustRegister(t, e, Rule{
		ID:       "exploding",
		Name:     "Exploding rule",
		Severity: SeverityError,
		Enabled:  true,
		Validate: func(Context) Outcome { panic("boom") },
	})

	seg := activity("a1", day(10, 12, 0), day(10, 10, 0), "Paris")
	res := e.ValidateAdd(itinerary(), seg)

	ids := failedRuleIDs(res)
	if !ids["exploding"] {
		t.Fatal("panicking rule produced no outcome")
	}
	if !ids[RuleChronologicalOrder] {
		t.Error("rules after the panic did not run")
	}
	for _, ro := range res.Errors {
		if ro.RuleID == "exploding" && !strings.Contains(ro.Message, "panicked") {
			t.Errorf("Message = %q, want panic diagnostic", ro.Message)
		}
	}
}

func TestValidateAdd(t *testing.T) {
	e := NewEngine(nil)
	it := itinerary(flight("f1", day(10, 14, 0), day(10, 17, 0), "Paris", "Rome"))

	res := e.ValidateAdd(it, flight("f2", day(10, 16, 0), day(10, 19, 0), "Paris", "Oslo"))
	if res.Valid {
		t.Fatal("Valid = true, want false for overlapping add")
	}
	if len(it.Segments) != 1 {
		t.Errorf("len(it.Segments) = %d, want 1; validation must not mutate the itinerary", len(it.Segments))
	}
}

func TestValidateUpdate(t *testing.T) {
	e := NewEngine(nil)
	f1 := flight("f1", day(10, 14, 0), day(10, 17, 0), "Paris", "Rome")
	f2 := flight("f2", day(10, 18, 0), day(10, 20, 0), "Paris", "Oslo")
	it := itinerary(f1, f2)

	// Moving f2 onto f1 must conflict with f1's stored times, while f2's own
	// stored times are replaced rather than compared against.
	moved := flight("f2", day(10, 15, 0), day(10, 16, 0), "Paris", "Oslo")
	res := e.ValidateUpdate(it, moved)

	if res.Valid {
		t.Fatal("Valid = true, want false")
	}
	for _, ro := range res.Errors {
		for _, rid := range ro.RelatedSegmentIDs {
			if rid == "f2" {
				t.Error("update context compared the candidate against its own stored copy")
			}
		}
	}
}

func TestValidateDelete(t *testing.T) {
	e := NewEngine(nil)
	ride := transfer("t1", day(10, 10, 15), day(10, 10, 45), "Lyon", "Annecy")
	it := itinerary(
		flight("f1", day(10, 8, 0), day(10, 10, 0), "Paris", "Lyon"),
		ride,
		activity("a1", day(10, 11, 0), day(10, 13, 0), "Annecy"),
	)

	res := e.ValidateDelete(it, ride)

	// The post-delete world has the activity with no transfer, but the
	// candidate being validated is the transfer itself, so the activity
	// warning does not fire here. The delete verdict stays valid.
	if !res.Valid {
		t.Errorf("Valid = false, want true: %+v", res.Errors)
	}
}

func TestValidateAll(t *testing.T) {
	e := NewEngine(nil)
	f1 := flight("f1", day(10, 14, 0), day(10, 17, 0), "Paris", "Rome")
	f2 := flight("f2", day(10, 16, 0), day(10, 19, 0), "Paris", "Oslo")
	ok := activity("a1", day(11, 10, 0), day(11, 12, 0), "Rome")
	it := itinerary(f1, f2, ok)

	results := e.ValidateAll(it)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results["f1"].Valid || results["f2"].Valid {
		t.Error("overlapping flights both reported valid")
	}
	if !results["a1"].Valid {
		t.Errorf("clean segment reported invalid: %+v", results["a1"].Errors)
	}
}

func TestValidateDeterministic(t *testing.T) {
	e := NewEngine(&Config{EnableWarnings: true, EnableInfo: true})
	it := itinerary(
		flight("f1", day(10, 14, 0), day(10, 17, 0), "Paris", "Rome"),
		flight("f2", day(10, 16, 0), day(10, 19, 0), "Paris", "Oslo"),
		activity("a1", day(10, 18, 0), day(10, 20, 0), "Oslo"),
	)

	first := e.ValidateAll(it)
	for i := 0; i < 10; i++ {
		if again := e.ValidateAll(it); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged from the first run", i)
		}
	}
}

func TestSummarize(t *testing.T) {
	wo := ReportedOutcome{RuleID: "r", Outcome: Outcome{Passed: false}}
	tests := []struct {
		name string
		r    Result
		want string
	}{
		{name: "clean", r: Result{Valid: true}, want: "Validation passed"},
		{
			name: "errors and warnings",
			r:    Result{Errors: []ReportedOutcome{wo, wo}, Warnings: []ReportedOutcome{wo}},
			want: "Validation failed: 2 error(s), 1 warning(s)",
		},
		{
			name: "warnings only",
			r:    Result{Valid: true, Warnings: []ReportedOutcome{wo}},
			want: "Validation passed with warnings: 1 warning(s)",
		},
		{
			name: "info only",
			r:    Result{Valid: true, Info: []ReportedOutcome{wo}},
			want: "Validation passed with warnings: 1 info message(s)",
		},
		{
			name: "notes do not change the summary",
			r:    Result{Valid: true, Notes: []ReportedOutcome{wo}},
			want: "Validation passed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.r); got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
