package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voyagehq/tripcheck/internal/types"
)

/*
 * Itinerary store.
 *
 * Persists itineraries and their segments through named queries. Segments
 * keep an explicit position column so insertion order survives round-trips;
 * the validation core depends on insertion order for its tie-break policy.
 *
 * Variant details are stored as a JSON column keyed by the segment type
 * discriminator, so the schema never changes when a variant gains a field.
 * Timestamps are RFC3339 text on both drivers.
 */

// Store wraps named queries with domain-typed itinerary operations.
type Store struct {
	q *Queries
}

// NewStore creates a store over loaded queries.
func NewStore(q *Queries) *Store {
	return &Store{q: q}
}

type itineraryRow struct {
	ItineraryID string         `db:"itinerary_id"`
	TenantID    string         `db:"tenant_id"`
	Name        string         `db:"name"`
	StartDate   sql.NullString `db:"start_date"`
	EndDate     sql.NullString `db:"end_date"`
	Warnings    string         `db:"warnings"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

type segmentRow struct {
	SegmentID   string `db:"segment_id"`
	ItineraryID string `db:"itinerary_id"`
	Type        string `db:"type"`
	Name        string `db:"name"`
	StartTime   string `db:"start_time"`
	EndTime     string `db:"end_time"`
	Source      string `db:"source"`
	Details     string `db:"details"`
	Position    int    `db:"position"`
}

// CreateItinerary persists a new itinerary. Segments on the value are
// ignored; they are added individually through AddSegment.
func (s *Store) CreateItinerary(it *types.Itinerary) error {
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now

	warnings, err := json.Marshal(it.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	_, err = s.q.Exec("insert-itinerary",
		string(it.ID), it.TenantID, it.Name,
		nullableDate(it.StartDate), nullableDate(it.EndDate),
		string(warnings), now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert itinerary: %w", err)
	}
	return nil
}

// GetItinerary loads an itinerary with its segments in insertion order.
// Returns types.ErrItineraryNotFound when absent or owned by another tenant.
func (s *Store) GetItinerary(tenantID string, id types.ItineraryID) (*types.Itinerary, error) {
	var row itineraryRow
	err := s.q.Get("get-itinerary", &row, string(id), tenantID)
	if err == sql.ErrNoRows {
		return nil, types.ErrItineraryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load itinerary: %w", err)
	}

	it, err := rowToItinerary(row)
	if err != nil {
		return nil, err
	}

	var segRows []segmentRow
	if err := s.q.Select("list-segments", &segRows, string(id)); err != nil {
		return nil, fmt.Errorf("failed to load segments: %w", err)
	}
	for _, sr := range segRows {
		seg, err := rowToSegment(sr)
		if err != nil {
			return nil, err
		}
		it.Segments = append(it.Segments, seg)
	}

	return it, nil
}

// ListItineraries returns a tenant's itineraries without segments loaded.
func (s *Store) ListItineraries(tenantID string) ([]types.Itinerary, error) {
	var rows []itineraryRow
	if err := s.q.Select("list-itineraries", &rows, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}

	out := make([]types.Itinerary, 0, len(rows))
	for _, row := range rows {
		it, err := rowToItinerary(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, nil
}

// DeleteItinerary removes an itinerary; segments cascade.
func (s *Store) DeleteItinerary(tenantID string, id types.ItineraryID) error {
	res, err := s.q.Exec("delete-itinerary", string(id), tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrItineraryNotFound
	}
	return nil
}

// AddSegment appends a segment at the next insertion position.
func (s *Store) AddSegment(itineraryID types.ItineraryID, seg types.Segment) error {
	var position int
	if err := s.q.Get("max-segment-position", &position, string(itineraryID)); err != nil {
		return fmt.Errorf("failed to compute segment position: %w", err)
	}

	details, err := marshalDetails(seg)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.q.Exec("insert-segment",
		string(seg.ID), string(itineraryID), string(seg.Type), seg.Name,
		seg.StartTime.UTC().Format(time.RFC3339), seg.EndTime.UTC().Format(time.RFC3339),
		string(seg.Source), details, position+1, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert segment: %w", err)
	}
	return nil
}

// UpdateSegment replaces a segment in place, keeping its position.
func (s *Store) UpdateSegment(itineraryID types.ItineraryID, seg types.Segment) error {
	details, err := marshalDetails(seg)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.q.Exec("update-segment",
		string(seg.Type), seg.Name,
		seg.StartTime.UTC().Format(time.RFC3339), seg.EndTime.UTC().Format(time.RFC3339),
		string(seg.Source), details, now,
		string(seg.ID), string(itineraryID),
	)
	if err != nil {
		return fmt.Errorf("failed to update segment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrSegmentNotFound
	}
	return nil
}

// DeleteSegment removes a segment.
func (s *Store) DeleteSegment(itineraryID types.ItineraryID, segmentID types.SegmentID) error {
	res, err := s.q.Exec("delete-segment", string(segmentID), string(itineraryID))
	if err != nil {
		return fmt.Errorf("failed to delete segment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrSegmentNotFound
	}
	return nil
}

// ReplaceWarnings overwrites the itinerary's attached validation warnings.
// Called after every mutating operation with the fresh verdict's warnings.
func (s *Store) ReplaceWarnings(itineraryID types.ItineraryID, warnings []types.SegmentWarning) error {
	if warnings == nil {
		warnings = []types.SegmentWarning{}
	}
	encoded, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.q.Exec("update-itinerary-warnings", string(encoded), now, string(itineraryID)); err != nil {
		return fmt.Errorf("failed to update warnings: %w", err)
	}
	return nil
}

// nullableDate formats an optional date as RFC3339 or NULL.
func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func rowToItinerary(row itineraryRow) (*types.Itinerary, error) {
	it := &types.Itinerary{
		ID:       types.ItineraryID(row.ItineraryID),
		TenantID: row.TenantID,
		Name:     row.Name,
	}

	var err error
	if it.CreatedAt, err = time.Parse(time.RFC3339, row.CreatedAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for itinerary %s: %w", row.ItineraryID, err)
	}
	if it.UpdatedAt, err = time.Parse(time.RFC3339, row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at for itinerary %s: %w", row.ItineraryID, err)
	}

	if row.StartDate.Valid {
		t, err := time.Parse(time.RFC3339, row.StartDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date for itinerary %s: %w", row.ItineraryID, err)
		}
		it.StartDate = &t
	}
	if row.EndDate.Valid {
		t, err := time.Parse(time.RFC3339, row.EndDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date for itinerary %s: %w", row.ItineraryID, err)
		}
		it.EndDate = &t
	}

	if row.Warnings != "" {
		if err := json.Unmarshal([]byte(row.Warnings), &it.Warnings); err != nil {
			return nil, fmt.Errorf("invalid warnings for itinerary %s: %w", row.ItineraryID, err)
		}
	}

	return it, nil
}

func rowToSegment(row segmentRow) (types.Segment, error) {
	seg := types.Segment{
		ID:     types.SegmentID(row.SegmentID),
		Type:   types.SegmentType(row.Type),
		Name:   row.Name,
		Source: types.SegmentSource(row.Source),
	}

	var err error
	if seg.StartTime, err = time.Parse(time.RFC3339, row.StartTime); err != nil {
		return types.Segment{}, fmt.Errorf("invalid start_time for segment %s: %w", row.SegmentID, err)
	}
	if seg.EndTime, err = time.Parse(time.RFC3339, row.EndTime); err != nil {
		return types.Segment{}, fmt.Errorf("invalid end_time for segment %s: %w", row.SegmentID, err)
	}

	if err := unmarshalDetails(&seg, row.Details); err != nil {
		return types.Segment{}, err
	}
	return seg, nil
}

// marshalDetails serializes the detail struct matching the segment's type.
// The switch enumerates every variant; an unknown type is rejected rather
// than stored with silently dropped details.
func marshalDetails(seg types.Segment) (string, error) {
	var details interface{}
	switch seg.Type {
	case types.SegmentFlight:
		if seg.Flight != nil {
			details = seg.Flight
		}
	case types.SegmentHotel:
		if seg.Hotel != nil {
			details = seg.Hotel
		}
	case types.SegmentActivity:
		if seg.Activity != nil {
			details = seg.Activity
		}
	case types.SegmentTransfer:
		if seg.Transfer != nil {
			details = seg.Transfer
		}
	case types.SegmentMeeting:
		if seg.Meeting != nil {
			details = seg.Meeting
		}
	case types.SegmentCustom:
		if seg.Custom != nil {
			details = seg.Custom
		}
	default:
		return "", fmt.Errorf("%w: %s", types.ErrUnknownSegmentType, seg.Type)
	}

	if details == nil {
		return "{}", nil
	}
	encoded, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("failed to marshal segment details: %w", err)
	}
	return string(encoded), nil
}

// unmarshalDetails hydrates the detail pointer matching the segment's type.
func unmarshalDetails(seg *types.Segment, details string) error {
	if details == "" || details == "null" {
		return nil
	}

	var dest interface{}
	switch seg.Type {
	case types.SegmentFlight:
		seg.Flight = &types.FlightDetails{}
		dest = seg.Flight
	case types.SegmentHotel:
		seg.Hotel = &types.HotelDetails{}
		dest = seg.Hotel
	case types.SegmentActivity:
		seg.Activity = &types.ActivityDetails{}
		dest = seg.Activity
	case types.SegmentTransfer:
		seg.Transfer = &types.TransferDetails{}
		dest = seg.Transfer
	case types.SegmentMeeting:
		seg.Meeting = &types.MeetingDetails{}
		dest = seg.Meeting
	case types.SegmentCustom:
		seg.Custom = &types.CustomDetails{}
		dest = seg.Custom
	default:
		return fmt.Errorf("%w: %s", types.ErrUnknownSegmentType, seg.Type)
	}

	if err := json.Unmarshal([]byte(details), dest); err != nil {
		return fmt.Errorf("invalid details for segment %s: %w", seg.ID, err)
	}
	return nil
}
