// internal/timecheck/fix.go
package timecheck

import (
	"fmt"
	"time"

	"github.com/voyagehq/tripcheck/internal/types"
)

// ApplyTimeFix returns a copy of the segment with its start time-of-day
// replaced by hhmm ("HH:mm", seconds and sub-seconds zeroed) and its end
// time shifted by the same delta, preserving the original duration exactly.
// The only mutation-producing operation in the validator; the input segment
// is never modified.
func ApplyTimeFix(seg types.Segment, hhmm string) (types.Segment, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(hhmm, "%2d:%2d", &hour, &minute); err != nil {
		return types.Segment{}, fmt.Errorf("%w: %q", types.ErrInvalidTimeOfDay, hhmm)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return types.Segment{}, fmt.Errorf("%w: %q", types.ErrInvalidTimeOfDay, hhmm)
	}

	start := seg.StartTime
	newStart := time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, start.Location())

	fixed := seg
	fixed.StartTime = newStart
	fixed.EndTime = newStart.Add(seg.EndTime.Sub(seg.StartTime))
	return fixed, nil
}
