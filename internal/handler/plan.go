package handler

import (
	"net/http"
	"time"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/service"
)

// createPlanRequest is the POST /areas/{id}/plans body. Dates are instants;
// the service truncates them to whole days.
type createPlanRequest struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CreatePlan handles POST /areas/{id}/plans. Only an effective administrator
// of the area may open it with a plan.
func (s *Server) CreatePlan(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}
	actor, ok := actorID(r)
	if !ok {
		writeRequestError(w, "missing or invalid X-User-ID header")
		return
	}
	var body createPlanRequest
	if err := decodeBody(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	plan, err := s.plans.Create(r.Context(), service.CreatePlanParams{
		AreaID:    areaID,
		ActorID:   actor,
		Name:      body.Name,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// GetPlan handles GET /plans/{id}.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid plan id")
		return
	}
	plan, err := s.plans.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ListAreaPlans handles GET /areas/{id}/plans.
func (s *Server) ListAreaPlans(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}
	params := queryPagination(r)
	plans, total, err := s.plans.ListByArea(r.Context(), areaID, params)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data       []domain.Plan `json:"data"`
		Pagination pagination    `json:"pagination"`
	}{
		Data:       plans,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// DeletePlan handles DELETE /plans/{id}. Only an effective administrator of
// the plan's area may remove it.
func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid plan id")
		return
	}
	actor, ok := actorID(r)
	if !ok {
		writeRequestError(w, "missing or invalid X-User-ID header")
		return
	}
	if err := s.plans.Delete(r.Context(), id, actor); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
