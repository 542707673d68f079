// Package types provides domain models shared across TripCheck components.
//
// Segments are immutable value objects from the validation core's
// perspective: the rule engine and time validator only ever read them, and
// operations that produce a changed segment (ApplyTimeFix) return a copy.
//
// Variant modelling: Segment is a tagged union over SegmentType with one
// optional detail struct per variant. Dispatch sites switch on Type and are
// expected to enumerate every variant so a new SegmentType forces them to be
// revisited.
package types

import "time"

// SegmentType discriminates the Segment tagged union.
type SegmentType string

const (
	SegmentFlight   SegmentType = "FLIGHT"
	SegmentHotel    SegmentType = "HOTEL"
	SegmentActivity SegmentType = "ACTIVITY"
	SegmentTransfer SegmentType = "TRANSFER"
	SegmentMeeting  SegmentType = "MEETING"
	SegmentCustom   SegmentType = "CUSTOM"
)

// SegmentTypes lists every variant in canonical order.
// Used by validation surfaces that enumerate applicability.
var SegmentTypes = []SegmentType{
	SegmentFlight,
	SegmentHotel,
	SegmentActivity,
	SegmentTransfer,
	SegmentMeeting,
	SegmentCustom,
}

// Valid reports whether t is a known segment variant.
func (t SegmentType) Valid() bool {
	switch t {
	case SegmentFlight, SegmentHotel, SegmentActivity, SegmentTransfer, SegmentMeeting, SegmentCustom:
		return true
	default:
		return false
	}
}

// SegmentSource records provenance of a segment.
type SegmentSource string

const (
	SourceManual SegmentSource = "manual"
	SourceAgent  SegmentSource = "agent"
	SourceImport SegmentSource = "import"
)

// Coordinates is a WGS84 point. Compared by exact equality; the validation
// core performs no geocoding or distance computation.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location identifies a place by city name with optional coordinates.
// A location is resolvable if it has coordinates or a non-empty city.
type Location struct {
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Resolvable reports whether the location carries enough information to be
// compared against another location.
func (l Location) Resolvable() bool {
	return l.Coordinates != nil || l.City != ""
}

// FlightDetails carries FLIGHT-specific fields.
type FlightDetails struct {
	Origin       Location `json:"origin"`
	Destination  Location `json:"destination"`
	FlightNumber string   `json:"flight_number,omitempty"`
}

// HotelDetails carries HOTEL-specific fields. The segment's start and end
// timestamps are the check-in and check-out times.
type HotelDetails struct {
	Property string   `json:"property,omitempty"`
	Location Location `json:"location"`
}

// ActivityDetails carries ACTIVITY-specific fields. Category is free text;
// the time validator keys dining behavior off substrings of it.
type ActivityDetails struct {
	Location Location `json:"location"`
	Category string   `json:"category,omitempty"`
}

// TransferDetails carries TRANSFER-specific fields.
type TransferDetails struct {
	Pickup  Location `json:"pickup"`
	Dropoff Location `json:"dropoff"`
	Mode    string   `json:"mode,omitempty"`
}

// MeetingDetails carries MEETING-specific fields.
type MeetingDetails struct {
	Location  Location `json:"location"`
	Organizer string   `json:"organizer,omitempty"`
}

// CustomDetails carries CUSTOM-specific fields. Location is optional; a
// custom segment without one never participates in location comparisons.
type CustomDetails struct {
	Location *Location `json:"location,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// Segment is one bookable unit of an itinerary.
// Exactly one detail pointer matching Type should be set; the zero detail
// (nil) degrades to "no resolvable location" rather than an error.
type Segment struct {
	ID        SegmentID     `json:"id"`
	Type      SegmentType   `json:"type"`
	Name      string        `json:"name,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Source    SegmentSource `json:"source,omitempty"`

	Flight   *FlightDetails   `json:"flight,omitempty"`
	Hotel    *HotelDetails    `json:"hotel,omitempty"`
	Activity *ActivityDetails `json:"activity,omitempty"`
	Transfer *TransferDetails `json:"transfer,omitempty"`
	Meeting  *MeetingDetails  `json:"meeting,omitempty"`
	Custom   *CustomDetails   `json:"custom,omitempty"`
}

// PrimaryLocation resolves the segment's primary location per its variant:
// flight -> destination, transfer -> drop-off, everything else -> location.
// Returns false when the variant's detail struct is absent or the resolved
// location carries neither coordinates nor a city.
func (s Segment) PrimaryLocation() (Location, bool) {
	var loc Location
	switch s.Type {
	case SegmentFlight:
		if s.Flight == nil {
			return Location{}, false
		}
		loc = s.Flight.Destination
	case SegmentHotel:
		if s.Hotel == nil {
			return Location{}, false
		}
		loc = s.Hotel.Location
	case SegmentActivity:
		if s.Activity == nil {
			return Location{}, false
		}
		loc = s.Activity.Location
	case SegmentTransfer:
		if s.Transfer == nil {
			return Location{}, false
		}
		loc = s.Transfer.Dropoff
	case SegmentMeeting:
		if s.Meeting == nil {
			return Location{}, false
		}
		loc = s.Meeting.Location
	case SegmentCustom:
		if s.Custom == nil || s.Custom.Location == nil {
			return Location{}, false
		}
		loc = *s.Custom.Location
	default:
		return Location{}, false
	}
	if !loc.Resolvable() {
		return Location{}, false
	}
	return loc, true
}
