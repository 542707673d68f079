package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/voyagehq/tripcheck/internal/core/auth"
	"github.com/voyagehq/tripcheck/internal/types"
)

// createItineraryRequest is the body for POST /v1/itineraries.
// Dates are date-only (2006-01-02); both optional, but a trip with only one
// bound is rejected because the trip-dates rule needs both or neither.
type createItineraryRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// CreateItinerary handles POST /v1/itineraries.
func (s *Service) CreateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		writeError(w, http.StatusInternalServerError, "missing tenant_id in context")
		return
	}

	var req createItineraryRequest
	if err := decodeBody(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	start, err := parseOptionalDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid start_date: %v", err))
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid end_date: %v", err))
		return
	}
	if (start == nil) != (end == nil) {
		writeError(w, http.StatusBadRequest, "start_date and end_date must be set together")
		return
	}
	if start != nil && end.Before(*start) {
		writeError(w, http.StatusBadRequest, "end_date must not precede start_date")
		return
	}

	it := &types.Itinerary{
		ID:        types.NewItineraryID(),
		TenantID:  tenantID,
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.store.CreateItinerary(it); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, it)
}

// GetItinerary handles GET /v1/itineraries/:id.
func (s *Service) GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := s.loadItinerary(w, r, ps)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// ListItineraries handles GET /v1/itineraries.
func (s *Service) ListItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tenantID := auth.TenantIDFromContext(r.Context())
	its, err := s.store.ListItineraries(tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, its)
}

// DeleteItinerary handles DELETE /v1/itineraries/:id.
func (s *Service) DeleteItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tenantID := auth.TenantIDFromContext(r.Context())
	id, err := types.ParseItineraryID(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid itinerary id")
		return
	}

	err = s.store.DeleteItinerary(tenantID, id)
	if errors.Is(err, types.ErrItineraryNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRules handles GET /v1/rules, exposing the registered catalog.
func (s *Service) ListRules(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	type ruleView struct {
		ID           string              `json:"id"`
		Name         string              `json:"name"`
		Description  string              `json:"description"`
		Severity     string              `json:"severity"`
		SegmentTypes []types.SegmentType `json:"segment_types,omitempty"`
		Enabled      bool                `json:"enabled"`
	}

	all := s.engine.Rules()
	out := make([]ruleView, 0, len(all))
	for _, rule := range all {
		out = append(out, ruleView{
			ID:           rule.ID,
			Name:         rule.Name,
			Description:  rule.Description,
			Severity:     string(rule.Severity),
			SegmentTypes: rule.SegmentTypes,
			Enabled:      rule.Enabled,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// loadItinerary resolves the :id path param for the authenticated tenant,
// writing the error response itself on failure.
func (s *Service) loadItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*types.Itinerary, bool) {
	tenantID := auth.TenantIDFromContext(r.Context())
	id, err := types.ParseItineraryID(ps.ByName("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid itinerary id")
		return nil, false
	}

	it, err := s.store.GetItinerary(tenantID, id)
	if errors.Is(err, types.ErrItineraryNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return it, true
}

// decodeBody decodes a size-limited JSON body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dest interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseOptionalDate parses a date-only string, returning nil for empty.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
