package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/voyagehq/tripcheck/internal/types"
)

// newTestStore opens an in-memory SQLite database with migrations applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// A second connection would see a different empty :memory: database.
	conn.SetMaxOpenConns(1)

	if err := MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	q, err := LoadQueries(conn)
	if err != nil {
		t.Fatalf("LoadQueries failed: %v", err)
	}
	return NewStore(q)
}

func testItinerary(tenantID string) *types.Itinerary {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	return &types.Itinerary{
		ID:        types.NewItineraryID(),
		TenantID:  tenantID,
		Name:      "Paris in June",
		StartDate: &start,
		EndDate:   &end,
	}
}

func testFlight() types.Segment {
	return types.Segment{
		ID:        types.NewSegmentID(),
		Type:      types.SegmentFlight,
		Name:      "Flight LHR-CDG",
		StartTime: time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 10, 10, 15, 0, 0, time.UTC),
		Source:    types.SourceManual,
		Flight: &types.FlightDetails{
			Origin:       types.Location{City: "London"},
			Destination:  types.Location{City: "Paris"},
			FlightNumber: "AF1681",
		},
	}
}

func TestItineraryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	it := testItinerary("tenant-a")

	if err := store.CreateItinerary(it); err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}

	loaded, err := store.GetItinerary("tenant-a", it.ID)
	if err != nil {
		t.Fatalf("GetItinerary failed: %v", err)
	}
	if loaded.Name != "Paris in June" {
		t.Errorf("Name = %q, want %q", loaded.Name, "Paris in June")
	}
	if loaded.StartDate == nil || !loaded.StartDate.Equal(*it.StartDate) {
		t.Errorf("StartDate = %v, want %v", loaded.StartDate, it.StartDate)
	}
	if len(loaded.Segments) != 0 {
		t.Errorf("len(Segments) = %d, want 0", len(loaded.Segments))
	}

	t.Run("other tenant cannot see it", func(t *testing.T) {
		if _, err := store.GetItinerary("tenant-b", it.ID); !errors.Is(err, types.ErrItineraryNotFound) {
			t.Errorf("GetItinerary error = %v, want ErrItineraryNotFound", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := store.GetItinerary("tenant-a", types.NewItineraryID()); !errors.Is(err, types.ErrItineraryNotFound) {
			t.Errorf("GetItinerary error = %v, want ErrItineraryNotFound", err)
		}
	})
}

func TestSegmentsKeepInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	it := testItinerary("tenant-a")
	if err := store.CreateItinerary(it); err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}

	// Insert out of chronological order; load order must follow insertion.
	late := types.Segment{
		ID:        types.NewSegmentID(),
		Type:      types.SegmentActivity,
		Name:      "Louvre",
		StartTime: time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 12, 13, 0, 0, 0, time.UTC),
		Source:    types.SourceManual,
		Activity:  &types.ActivityDetails{Location: types.Location{City: "Paris"}, Category: "museum"},
	}
	early := testFlight()

	if err := store.AddSegment(it.ID, late); err != nil {
		t.Fatalf("AddSegment failed: %v", err)
	}
	if err := store.AddSegment(it.ID, early); err != nil {
		t.Fatalf("AddSegment failed: %v", err)
	}

	loaded, err := store.GetItinerary("tenant-a", it.ID)
	if err != nil {
		t.Fatalf("GetItinerary failed: %v", err)
	}
	if len(loaded.Segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(loaded.Segments))
	}
	if loaded.Segments[0].ID != late.ID || loaded.Segments[1].ID != early.ID {
		t.Errorf("segment order = [%s %s], want insertion order [%s %s]",
			loaded.Segments[0].ID, loaded.Segments[1].ID, late.ID, early.ID)
	}

	got := loaded.Segments[1]
	if got.Flight == nil {
		t.Fatal("Flight details not hydrated")
	}
	if got.Flight.FlightNumber != "AF1681" {
		t.Errorf("FlightNumber = %q, want AF1681", got.Flight.FlightNumber)
	}
	if got.Flight.Destination.City != "Paris" {
		t.Errorf("Destination.City = %q, want Paris", got.Flight.Destination.City)
	}
	if !got.StartTime.Equal(early.StartTime) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, early.StartTime)
	}
}

func TestUpdateSegment(t *testing.T) {
	store := newTestStore(t)
	it := testItinerary("tenant-a")
	if err := store.CreateItinerary(it); err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}

	seg := testFlight()
	if err := store.AddSegment(it.ID, seg); err != nil {
		t.Fatalf("AddSegment failed: %v", err)
	}

	seg.Name = "Flight LHR-CDG (rebooked)"
	seg.StartTime = seg.StartTime.Add(2 * time.Hour)
	seg.EndTime = seg.EndTime.Add(2 * time.Hour)
	if err := store.UpdateSegment(it.ID, seg); err != nil {
		t.Fatalf("UpdateSegment failed: %v", err)
	}

	loaded, err := store.GetItinerary("tenant-a", it.ID)
	if err != nil {
		t.Fatalf("GetItinerary failed: %v", err)
	}
	if loaded.Segments[0].Name != "Flight LHR-CDG (rebooked)" {
		t.Errorf("Name = %q, want rebooked name", loaded.Segments[0].Name)
	}

	t.Run("unknown segment", func(t *testing.T) {
		ghost := testFlight()
		if err := store.UpdateSegment(it.ID, ghost); !errors.Is(err, types.ErrSegmentNotFound) {
			t.Errorf("UpdateSegment error = %v, want ErrSegmentNotFound", err)
		}
	})
}

func TestDeleteSegment(t *testing.T) {
	store := newTestStore(t)
	it := testItinerary("tenant-a")
	if err := store.CreateItinerary(it); err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}

	seg := testFlight()
	if err := store.AddSegment(it.ID, seg); err != nil {
		t.Fatalf("AddSegment failed: %v", err)
	}
	if err := store.DeleteSegment(it.ID, seg.ID); err != nil {
		t.Fatalf("DeleteSegment failed: %v", err)
	}
	if err := store.DeleteSegment(it.ID, seg.ID); !errors.Is(err, types.ErrSegmentNotFound) {
		t.Errorf("second delete error = %v, want ErrSegmentNotFound", err)
	}

	loaded, err := store.GetItinerary("tenant-a", it.ID)
	if err != nil {
		t.Fatalf("GetItinerary failed: %v", err)
	}
	if len(loaded.Segments) != 0 {
		t.Errorf("len(Segments) = %d, want 0", len(loaded.Segments))
	}
}

func TestReplaceWarnings(t *testing.T) {
	store := newTestStore(t)
	it := testItinerary("tenant-a")
	if err := store.CreateItinerary(it); err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}

	warnings := []types.SegmentWarning{
		{SegmentID: "seg-1", RuleID: "reasonable-duration", Message: "Flight duration of 15 minutes is outside the expected range"},
	}
	if err := store.ReplaceWarnings(it.ID, warnings); err != nil {
		t.Fatalf("ReplaceWarnings failed: %v", err)
	}

	loaded, err := store.GetItinerary("tenant-a", it.ID)
	if err != nil {
		t.Fatalf("GetItinerary failed: %v", err)
	}
	if len(loaded.Warnings) != 1 || loaded.Warnings[0].RuleID != "reasonable-duration" {
		t.Errorf("Warnings = %+v, want the stored warning back", loaded.Warnings)
	}

	if err := store.ReplaceWarnings(it.ID, nil); err != nil {
		t.Fatalf("ReplaceWarnings(nil) failed: %v", err)
	}
	loaded, err = store.GetItinerary("tenant-a", it.ID)
	if err != nil {
		t.Fatalf("GetItinerary failed: %v", err)
	}
	if len(loaded.Warnings) != 0 {
		t.Errorf("Warnings = %+v, want empty after replace with nil", loaded.Warnings)
	}
}

func TestDeleteItineraryCascades(t *testing.T) {
	store := newTestStore(t)
	it := testItinerary("tenant-a")
	if err := store.CreateItinerary(it); err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}
	if err := store.AddSegment(it.ID, testFlight()); err != nil {
		t.Fatalf("AddSegment failed: %v", err)
	}

	if err := store.DeleteItinerary("tenant-b", it.ID); !errors.Is(err, types.ErrItineraryNotFound) {
		t.Errorf("cross-tenant delete error = %v, want ErrItineraryNotFound", err)
	}
	if err := store.DeleteItinerary("tenant-a", it.ID); err != nil {
		t.Fatalf("DeleteItinerary failed: %v", err)
	}

	var count int
	if err := store.q.Get("max-segment-position", &count, string(it.ID)); err != nil {
		t.Fatalf("max-segment-position failed: %v", err)
	}
	if count != -1 {
		t.Errorf("max position = %d after cascade delete, want -1", count)
	}
}

func TestListItineraries(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"Trip one", "Trip two"} {
		it := testItinerary("tenant-a")
		it.Name = name
		if err := store.CreateItinerary(it); err != nil {
			t.Fatalf("CreateItinerary failed: %v", err)
		}
	}
	other := testItinerary("tenant-b")
	if err := store.CreateItinerary(other); err != nil {
		t.Fatalf("CreateItinerary failed: %v", err)
	}

	list, err := store.ListItineraries("tenant-a")
	if err != nil {
		t.Fatalf("ListItineraries failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len(list) = %d, want 2", len(list))
	}
	for _, it := range list {
		if it.TenantID != "tenant-a" {
			t.Errorf("TenantID = %s, want tenant-a", it.TenantID)
		}
	}
}
