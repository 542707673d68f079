// internal/timecheck/keyword.go
package timecheck

import (
	"sort"
	"strings"
)

/*
 * Keyword layer of the time validator.
 *
 * A segment whose free-text name contains a time keyword carries an implied
 * scheduling convention: "dinner" belongs in the evening, "sunrise hike" at
 * dawn. Keywords are tested longest first so "early morning" wins over
 * "morning"; the first substring match decides and no further keywords are
 * tested.
 *
 * Windows may wrap past midnight (MaxHour < MinHour). Membership for a
 * wrapped window is hour >= MinHour OR hour <= MaxHour; otherwise the
 * ordinary closed interval.
 *
 * A matching keyword short-circuits the type-specific layer entirely: a
 * correctly scheduled "late night ramen" must not also trip the generic
 * dining-hours check.
 */

// keywordWindow maps a name keyword to its expected hour window.
type keywordWindow struct {
	Keyword     string
	MinHour     int
	MaxHour     int
	Description string
	// SuggestedTime is the canonical HH:mm fix offered when the start hour
	// falls outside the window.
	SuggestedTime string
}

// keywordWindows is the fixed keyword table. Order here is canonical for
// documentation; matching order is longest keyword first (see keywordsByLength).
var keywordWindows = []keywordWindow{
	{Keyword: "early morning", MinHour: 5, MaxHour: 8, Description: "early morning (5:00-8:00)", SuggestedTime: "06:00"},
	{Keyword: "breakfast", MinHour: 6, MaxHour: 10, Description: "breakfast hours (6:00-10:00)", SuggestedTime: "08:00"},
	{Keyword: "sunrise", MinHour: 5, MaxHour: 7, Description: "around sunrise (5:00-7:00)", SuggestedTime: "06:00"},
	{Keyword: "morning", MinHour: 6, MaxHour: 11, Description: "the morning (6:00-11:00)", SuggestedTime: "09:00"},
	{Keyword: "brunch", MinHour: 10, MaxHour: 14, Description: "brunch hours (10:00-14:00)", SuggestedTime: "11:00"},
	{Keyword: "lunch", MinHour: 11, MaxHour: 14, Description: "lunch hours (11:00-14:00)", SuggestedTime: "12:30"},
	{Keyword: "afternoon", MinHour: 12, MaxHour: 17, Description: "the afternoon (12:00-17:00)", SuggestedTime: "14:00"},
	{Keyword: "sunset", MinHour: 17, MaxHour: 20, Description: "around sunset (17:00-20:00)", SuggestedTime: "18:30"},
	{Keyword: "evening", MinHour: 17, MaxHour: 21, Description: "the evening (17:00-21:00)", SuggestedTime: "19:00"},
	{Keyword: "dinner", MinHour: 17, MaxHour: 22, Description: "dinner hours (17:00-22:00)", SuggestedTime: "19:00"},
	{Keyword: "late night", MinHour: 21, MaxHour: 2, Description: "late night (21:00-2:00)", SuggestedTime: "22:00"},
	{Keyword: "night", MinHour: 19, MaxHour: 23, Description: "night time (19:00-23:00)", SuggestedTime: "21:00"},
	{Keyword: "midnight", MinHour: 23, MaxHour: 1, Description: "around midnight (23:00-1:00)", SuggestedTime: "00:00"},
}

// keywordsByLength is keywordWindows re-sorted longest keyword first, so a
// name containing "early morning" matches before "morning". Stable sort
// keeps table order for equal lengths.
var keywordsByLength = func() []keywordWindow {
	out := make([]keywordWindow, len(keywordWindows))
	copy(out, keywordWindows)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Keyword) > len(out[j].Keyword)
	})
	return out
}()

// matchKeyword returns the first (longest-first) keyword contained in the
// lower-cased name.
func matchKeyword(name string) (keywordWindow, bool) {
	lower := strings.ToLower(name)
	for _, kw := range keywordsByLength {
		if strings.Contains(lower, kw.Keyword) {
			return kw, true
		}
	}
	return keywordWindow{}, false
}

// inWindow reports whether hour falls inside the window, honoring
// wrap-past-midnight semantics when MaxHour < MinHour.
func (w keywordWindow) inWindow(hour int) bool {
	if w.MaxHour < w.MinHour {
		return hour >= w.MinHour || hour <= w.MaxHour
	}
	return hour >= w.MinHour && hour <= w.MaxHour
}
