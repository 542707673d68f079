package api

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/voyagehq/tripcheck/internal/rules"
	"github.com/voyagehq/tripcheck/internal/timecheck"
	"github.com/voyagehq/tripcheck/internal/types"
)

// mutationResponse is returned by every segment mutation. The verdict is
// always attached so callers can surface warnings and notes; TimeCheck is
// the independent time-semantics result for the candidate segment.
type mutationResponse struct {
	Segment   *types.Segment    `json:"segment,omitempty"`
	Verdict   rules.Result      `json:"verdict"`
	Summary   string            `json:"summary"`
	TimeCheck *timecheck.Result `json:"time_check,omitempty"`
}

// AddSegment handles POST /v1/itineraries/:id/segments.
// validateAdd decides: an error verdict rejects with 422 before anything is
// persisted; otherwise the segment is stored and the verdict's warnings are
// attached to the itinerary as metadata.
func (s *Service) AddSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := s.loadItinerary(w, r, ps)
	if !ok {
		return
	}

	var seg types.Segment
	if err := decodeBody(w, r, s.cfg.MaxBodyBytes, &seg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	seg.ID = types.NewSegmentID()
	if seg.Source == "" {
		seg.Source = types.SourceManual
	}
	if err := checkSegmentLimits(it, seg, true); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdict := s.engine.ValidateAdd(it, seg)
	if !verdict.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, mutationResponse{
			Verdict: verdict,
			Summary: rules.Summarize(verdict),
		})
		return
	}

	if err := s.store.AddSegment(it.ID, seg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.ReplaceWarnings(it.ID, warningsFor(seg, verdict)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	timeCheck := timecheck.ValidateSegmentTime(seg)
	writeJSON(w, http.StatusCreated, mutationResponse{
		Segment:   &seg,
		Verdict:   verdict,
		Summary:   rules.Summarize(verdict),
		TimeCheck: &timeCheck,
	})
}

// UpdateSegment handles PUT /v1/itineraries/:id/segments/:segmentID.
func (s *Service) UpdateSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := s.loadItinerary(w, r, ps)
	if !ok {
		return
	}

	segmentID, err := types.ParseSegmentID(ps.ByName("segmentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid segment id")
		return
	}
	if _, idx := it.FindSegment(segmentID); idx < 0 {
		writeError(w, http.StatusNotFound, types.ErrSegmentNotFound.Error())
		return
	}

	var seg types.Segment
	if err := decodeBody(w, r, s.cfg.MaxBodyBytes, &seg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	seg.ID = segmentID
	if seg.Source == "" {
		seg.Source = types.SourceManual
	}
	if err := checkSegmentLimits(it, seg, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdict := s.engine.ValidateUpdate(it, seg)
	if !verdict.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, mutationResponse{
			Verdict: verdict,
			Summary: rules.Summarize(verdict),
		})
		return
	}

	if err := s.store.UpdateSegment(it.ID, seg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.ReplaceWarnings(it.ID, warningsFor(seg, verdict)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	timeCheck := timecheck.ValidateSegmentTime(seg)
	writeJSON(w, http.StatusOK, mutationResponse{
		Segment:   &seg,
		Verdict:   verdict,
		Summary:   rules.Summarize(verdict),
		TimeCheck: &timeCheck,
	})
}

// DeleteSegment handles DELETE /v1/itineraries/:id/segments/:segmentID.
// Deletes validate too: removing a transfer can strand an activity, which
// surfaces as warnings on the response without blocking the delete.
func (s *Service) DeleteSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := s.loadItinerary(w, r, ps)
	if !ok {
		return
	}

	segmentID, err := types.ParseSegmentID(ps.ByName("segmentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid segment id")
		return
	}
	seg, idx := it.FindSegment(segmentID)
	if idx < 0 {
		writeError(w, http.StatusNotFound, types.ErrSegmentNotFound.Error())
		return
	}

	verdict := s.engine.ValidateDelete(it, seg)

	if err := s.store.DeleteSegment(it.ID, segmentID); err != nil {
		if errors.Is(err, types.ErrSegmentNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.ReplaceWarnings(it.ID, warningsFor(seg, verdict)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{
		Verdict: verdict,
		Summary: rules.Summarize(verdict),
	})
}

// auditResponse is the body of GET /v1/itineraries/:id/validation.
type auditResponse struct {
	Results     map[types.SegmentID]rules.Result `json:"results"`
	Summaries   map[types.SegmentID]string       `json:"summaries"`
	TimeIssues  []timecheck.SegmentIssue         `json:"time_issues"`
	TimeSummary timecheck.Summary                `json:"time_summary"`
}

// AuditItinerary handles GET /v1/itineraries/:id/validation.
// Runs the batch verdict over every segment in place plus the batch time
// check; a read-only audit that persists nothing.
func (s *Service) AuditItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := s.loadItinerary(w, r, ps)
	if !ok {
		return
	}

	results := s.engine.ValidateAll(it)
	summaries := make(map[types.SegmentID]string, len(results))
	for id, res := range results {
		summaries[id] = rules.Summarize(res)
	}

	issues := timecheck.ValidateItineraryTimes(it.Segments)
	writeJSON(w, http.StatusOK, auditResponse{
		Results:     results,
		Summaries:   summaries,
		TimeIssues:  issues,
		TimeSummary: timecheck.Summarize(issues),
	})
}

// warningsFor converts a verdict's warning bucket into itinerary metadata
// attributed to the candidate segment.
func warningsFor(seg types.Segment, verdict rules.Result) []types.SegmentWarning {
	warnings := make([]types.SegmentWarning, 0, len(verdict.Warnings))
	for _, wo := range verdict.Warnings {
		warnings = append(warnings, types.SegmentWarning{
			SegmentID: seg.ID,
			RuleID:    wo.RuleID,
			Message:   wo.Message,
		})
	}
	return warnings
}

// checkSegmentLimits applies the API-boundary resource limits.
func checkSegmentLimits(it *types.Itinerary, seg types.Segment, adding bool) error {
	if !seg.Type.Valid() {
		return types.ErrUnknownSegmentType
	}
	if len(seg.Name) > types.MaxSegmentNameLength {
		return types.ErrSegmentNameTooLong
	}
	if adding && len(it.Segments) >= types.MaxSegmentsPerItinerary {
		return types.ErrTooManySegments
	}
	return nil
}
