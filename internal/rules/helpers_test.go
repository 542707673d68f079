package rules

import (
	"time"

	"github.com/voyagehq/tripcheck/internal/types"
)

// Test builders. Times use a fixed June 2025 base so failures print stable
// timestamps.

func flight(id string, start, end time.Time, from, to string) types.Segment {
	return types.Segment{
		ID:        types.SegmentID(id),
		Type:      types.SegmentFlight,
		Name:      "Flight " + from + "-" + to,
		StartTime: start,
		EndTime:   end,
		Flight: &types.FlightDetails{
			Origin:      types.Location{City: from},
			Destination: types.Location{City: to},
		},
	}
}

func hotel(id string, start, end time.Time, property, city string) types.Segment {
	return types.Segment{
		ID:        types.SegmentID(id),
		Type:      types.SegmentHotel,
		Name:      property,
		StartTime: start,
		EndTime:   end,
		Hotel: &types.HotelDetails{
			Property: property,
			Location: types.Location{City: city},
		},
	}
}

func activity(id string, start, end time.Time, city string) types.Segment {
	return types.Segment{
		ID:        types.SegmentID(id),
		Type:      types.SegmentActivity,
		Name:      "Activity in " + city,
		StartTime: start,
		EndTime:   end,
		Activity: &types.ActivityDetails{
			Location: types.Location{City: city},
		},
	}
}

func transfer(id string, start, end time.Time, from, to string) types.Segment {
	return types.Segment{
		ID:        types.SegmentID(id),
		Type:      types.SegmentTransfer,
		Name:      "Transfer",
		StartTime: start,
		EndTime:   end,
		Transfer: &types.TransferDetails{
			Pickup:  types.Location{City: from},
			Dropoff: types.Location{City: to},
		},
	}
}

func itinerary(segs ...types.Segment) *types.Itinerary {
	return &types.Itinerary{
		ID:       types.NewItineraryID(),
		TenantID: "tenant-test",
		Name:     "Test trip",
		Segments: segs,
	}
}

// failedRuleIDs flattens every failing bucket into rule ids for membership
// checks.
func failedRuleIDs(r Result) map[string]bool {
	ids := make(map[string]bool)
	for _, bucket := range [][]ReportedOutcome{r.Errors, r.Warnings, r.Info} {
		for _, ro := range bucket {
			ids[ro.RuleID] = true
		}
	}
	return ids
}
