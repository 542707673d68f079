package rules

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func day(d, hour, min int) time.Time {
	return time.Date(2025, 6, d, hour, min, 0, 0, time.UTC)
}

func TestDatesOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{
			name: "clear overlap",
			s1:   day(1, 15, 0), e1: day(5, 11, 0),
			s2: day(3, 15, 0), e2: day(8, 11, 0),
			want: true,
		},
		{
			name: "touching ranges on handoff day do not overlap",
			s1:   day(1, 15, 0), e1: day(3, 11, 0),
			s2: day(3, 15, 0), e2: day(6, 11, 0),
			want: false,
		},
		{
			name: "disjoint",
			s1:   day(1, 0, 0), e1: day(2, 0, 0),
			s2: day(5, 0, 0), e2: day(6, 0, 0),
			want: false,
		},
		{
			name: "contained",
			s1:   day(1, 0, 0), e1: day(10, 0, 0),
			s2: day(3, 0, 0), e2: day(4, 0, 0),
			want: true,
		},
		{
			name: "same-day times still overlap after truncation",
			s1:   day(2, 9, 0), e1: day(4, 10, 0),
			s2: day(3, 22, 0), e2: day(5, 8, 0),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DatesOverlap(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("DatesOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDatetimesOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{
			name: "overlap by one minute",
			s1:   day(1, 10, 0), e1: day(1, 12, 1),
			s2: day(1, 12, 0), e2: day(1, 14, 0),
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			s1:   day(1, 10, 0), e1: day(1, 12, 0),
			s2: day(1, 12, 0), e2: day(1, 14, 0),
			want: false,
		},
		{
			name: "disjoint",
			s1:   day(1, 10, 0), e1: day(1, 11, 0),
			s2: day(1, 13, 0), e2: day(1, 14, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DatetimesOverlap(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("DatetimesOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{name: "two hours", start: day(1, 10, 0), end: day(1, 12, 0), want: 120},
		{name: "negative not clamped", start: day(1, 12, 0), end: day(1, 10, 0), want: -120},
		{name: "rounds seconds", start: day(1, 10, 0), end: day(1, 10, 0).Add(90 * time.Second), want: 2},
		{name: "zero", start: day(1, 10, 0), end: day(1, 10, 0), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationMinutes(tt.start, tt.end); got != tt.want {
				t.Errorf("DurationMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasOvernightGap(t *testing.T) {
	if HasOvernightGap(day(1, 20, 0), day(2, 9, 0)) != true {
		t.Error("HasOvernightGap() = false for 13-hour gap, want true")
	}
	if HasOvernightGap(day(1, 10, 0), day(1, 14, 0)) != false {
		t.Error("HasOvernightGap() = true for exactly 240 minutes, want false")
	}
	if HasOvernightGap(day(1, 10, 0), day(1, 14, 1)) != true {
		t.Error("HasOvernightGap() = false for 241 minutes, want true")
	}
}

// genTime produces timestamps across a few weeks at minute resolution.
func genTime() gopter.Gen {
	return gen.IntRange(0, 40000).Map(func(m int) time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m) * time.Minute)
	})
}

func TestOverlapProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("datetimesOverlap is symmetric", prop.ForAll(
		func(s1, e1, s2, e2 time.Time) bool {
			return DatetimesOverlap(s1, e1, s2, e2) == DatetimesOverlap(s2, e2, s1, e1)
		},
		genTime(), genTime(), genTime(), genTime(),
	))

	properties.Property("datesOverlap is symmetric", prop.ForAll(
		func(s1, e1, s2, e2 time.Time) bool {
			return DatesOverlap(s1, e1, s2, e2) == DatesOverlap(s2, e2, s1, e1)
		},
		genTime(), genTime(), genTime(), genTime(),
	))

	properties.Property("touching date ranges never overlap", prop.ForAll(
		func(d1, gap1, gap2 int) bool {
			a := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d1)
			b := a.AddDate(0, 0, 1+gap1)
			c := b.AddDate(0, 0, 1+gap2)
			return !DatesOverlap(a, b, b, c)
		},
		gen.IntRange(0, 30), gen.IntRange(0, 10), gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
