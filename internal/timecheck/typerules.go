// internal/timecheck/typerules.go
package timecheck

import (
	"strings"

	"github.com/voyagehq/tripcheck/internal/types"
)

/*
 * Type-specific layer of the time validator.
 *
 * Reached only when no name keyword matched. Dispatches on segment variant:
 *
 *   ACTIVITY  dining categories get meal-time bands, everything else gets
 *             attraction opening-hour bands
 *   FLIGHT    always valid except an advisory red-eye note for 1:00-5:59
 *   HOTEL     check-in before 12:00 or at/after 23:00 draws a warning
 *   TRANSFER  1:00-5:59 draws an advisory overnight-availability note
 *   MEETING   no norms; meetings happen whenever people agree to meet
 *   CUSTOM    no norms
 *
 * The switch enumerates every variant so adding a SegmentType forces this
 * site to be revisited.
 */

// validateTypeHours applies type-specific business-hour norms.
func validateTypeHours(seg types.Segment, hour int) Result {
	switch seg.Type {
	case types.SegmentActivity:
		if isDining(seg) {
			return validateDiningHours(hour)
		}
		return validateAttractionHours(hour)
	case types.SegmentFlight:
		return validateFlightHours(hour)
	case types.SegmentHotel:
		return validateHotelHours(hour)
	case types.SegmentTransfer:
		return validateTransferHours(hour)
	case types.SegmentMeeting, types.SegmentCustom:
		return Result{Valid: true}
	default:
		return Result{Valid: true}
	}
}

// isDining reports whether an activity's category marks it as a meal.
func isDining(seg types.Segment) bool {
	if seg.Activity == nil {
		return false
	}
	cat := strings.ToLower(seg.Activity.Category)
	return strings.Contains(cat, "dining") ||
		strings.Contains(cat, "restaurant") ||
		strings.Contains(cat, "food")
}

// validateDiningHours applies meal-time bands to dining activities.
// Bands: breakfast 6-11 (6 too early for most kitchens), lunch 11-15,
// dinner 17-23, late dining 23-2 wraps, 2-6 closed, 15-17 merely unusual.
func validateDiningHours(hour int) Result {
	switch {
	case hour >= 6 && hour < 11:
		if hour < 7 {
			return Result{
				Valid:         false,
				Severity:      SeverityWarning,
				Issue:         "Very early for breakfast; many kitchens open at 7:00",
				SuggestedTime: "07:30",
				Category:      CategoryDining,
			}
		}
		return Result{Valid: true}
	case hour >= 11 && hour < 15:
		return Result{Valid: true}
	case hour >= 17 && hour < 23:
		return Result{Valid: true}
	case hour >= 23 || hour < 2:
		return Result{
			Valid:         false,
			Severity:      SeverityWarning,
			Issue:         "Late-night dining; verify the restaurant serves at this hour",
			SuggestedTime: "19:00",
			Category:      CategoryDining,
		}
	case hour >= 2 && hour < 6:
		return Result{
			Valid:         false,
			Severity:      SeverityError,
			Issue:         "Too early for dining; restaurants are closed at this hour",
			SuggestedTime: "08:00",
			Category:      CategoryDining,
		}
	default: // 15-17, between lunch and dinner service
		return Result{
			Valid:         false,
			Severity:      SeverityInfo,
			Issue:         "Unusual dining time between lunch and dinner service",
			SuggestedTime: "18:00",
			Category:      CategoryDining,
		}
	}
}

// validateAttractionHours applies opening-hour bands to non-dining
// activities. Bands: 8-22 open, 6-8 early, 4-6 too early, 0-4 overnight,
// 22-24 late.
func validateAttractionHours(hour int) Result {
	switch {
	case hour >= 8 && hour < 22:
		return Result{Valid: true}
	case hour >= 6 && hour < 8:
		return Result{
			Valid:         false,
			Severity:      SeverityWarning,
			Issue:         "Early start; most attractions open at 8:00 or later",
			SuggestedTime: "09:00",
			Category:      CategoryAttraction,
		}
	case hour >= 4 && hour < 6:
		return Result{
			Valid:         false,
			Severity:      SeverityError,
			Issue:         "Too early; attractions are closed at this hour",
			SuggestedTime: "09:00",
			Category:      CategoryAttraction,
		}
	case hour < 4:
		return Result{
			Valid:         false,
			Severity:      SeverityError,
			Issue:         "Overnight hours; attractions are closed",
			SuggestedTime: "09:00",
			Category:      CategoryAttraction,
		}
	default: // 22-24
		return Result{
			Valid:         false,
			Severity:      SeverityWarning,
			Issue:         "Late start; most attractions close by 22:00",
			SuggestedTime: "19:00",
			Category:      CategoryAttraction,
		}
	}
}

// validateFlightHours notes red-eye departures. Flights operate around the
// clock, so this is advisory only.
func validateFlightHours(hour int) Result {
	if hour >= 1 && hour <= 5 {
		return Result{
			Valid:         false,
			Severity:      SeverityInfo,
			Issue:         "Red-eye departure; verify the flight time is correct",
			SuggestedTime: "08:00",
			Category:      CategoryFlight,
		}
	}
	return Result{Valid: true}
}

// validateHotelHours flags check-ins outside typical desk hours. Standard
// check-in is 15:00; before noon usually incurs an early-check-in fee.
func validateHotelHours(hour int) Result {
	if hour < 12 {
		return Result{
			Valid:         false,
			Severity:      SeverityWarning,
			Issue:         "Early check-in; rooms are rarely ready before noon and may incur a fee",
			SuggestedTime: "15:00",
			Category:      CategoryHotel,
		}
	}
	if hour >= 23 {
		return Result{
			Valid:         false,
			Severity:      SeverityWarning,
			Issue:         "Late check-in; verify the property has a 24-hour front desk",
			SuggestedTime: "15:00",
			Category:      CategoryHotel,
		}
	}
	return Result{Valid: true}
}

// validateTransferHours notes overnight transfers when service may be
// unavailable.
func validateTransferHours(hour int) Result {
	if hour >= 1 && hour <= 5 {
		return Result{
			Valid:         false,
			Severity:      SeverityInfo,
			Issue:         "Overnight transfer; verify the service operates at this hour",
			SuggestedTime: "08:00",
			Category:      CategoryTransfer,
		}
	}
	return Result{Valid: true}
}
