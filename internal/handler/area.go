package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/service"
)

// createAreaRequest is the POST /areas body.
type createAreaRequest struct {
	Name         string      `json:"name"`
	Capacity     int         `json:"capacity"`
	Type         string      `json:"type"`
	Description  string      `json:"description,omitempty"`
	CalendarLink string      `json:"calendar_link,omitempty"`
	Reservable   *bool       `json:"reservable,omitempty"`
	AdminIDs     []uuid.UUID `json:"administrator_ids,omitempty"`
	Features     []string    `json:"features,omitempty"`
	SuperAreaID  *uuid.UUID  `json:"super_area_id,omitempty"`
}

// areaResponse is the full representation of an area, including the derived
// effective administrator set.
type areaResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Capacity           int              `json:"capacity"`
	Type               domain.AreaType  `json:"type"`
	Description        string           `json:"description,omitempty"`
	CalendarLink       string           `json:"calendar_link,omitempty"`
	CalendarControlled bool             `json:"calendar_controlled"`
	Reservable         bool             `json:"reservable"`
	SuperAreaID        *uuid.UUID       `json:"super_area_id,omitempty"`
	Administrators     []domain.User    `json:"administrators"`
	EffectiveAdmins    []domain.User    `json:"effective_administrators"`
	Features           []domain.Feature `json:"features"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func areaToResponse(a *domain.Area) areaResponse {
	resp := areaResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Capacity:           a.Capacity,
		Type:               a.Type,
		Description:        a.Description,
		CalendarLink:       a.CalendarLink,
		CalendarControlled: a.CalendarControlled,
		Reservable:         a.Reservable,
		Administrators:     a.DirectAdministrators(),
		EffectiveAdmins:    a.EffectiveAdministrators(),
		Features:           a.Features(),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if s := a.Super(); s != nil {
		id := s.ID
		resp.SuperAreaID = &id
	}
	return resp
}

// CreateArea handles POST /areas.
func (s *Server) CreateArea(w http.ResponseWriter, r *http.Request) {
	var body createAreaRequest
	if err := decodeBody(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	area, err := s.areas.Create(r.Context(), service.CreateAreaParams{
		Name:         body.Name,
		Capacity:     body.Capacity,
		TypeName:     body.Type,
		Description:  body.Description,
		CalendarLink: body.CalendarLink,
		Reservable:   body.Reservable,
		AdminIDs:     body.AdminIDs,
		FeatureNames: body.Features,
		SuperAreaID:  body.SuperAreaID,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, areaToResponse(area))
}

// GetArea handles GET /areas/{id}.
func (s *Server) GetArea(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}
	area, err := s.areas.Get(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// ListAreas handles GET /areas.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListAreas(w http.ResponseWriter, r *http.Request) {
	params := queryPagination(r)
	summaries, total, err := s.areas.List(r.Context(), params)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data       []domain.AreaSummary `json:"data"`
		Pagination pagination           `json:"pagination"`
	}{
		Data:       summaries,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// ListAreaChildren handles GET /areas/{id}/children.
func (s *Server) ListAreaChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}
	children, err := s.areas.ListChildren(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []domain.AreaSummary `json:"data"`
	}{Data: children})
}

// ListAreaAncestors handles GET /areas/{id}/ancestors.
// The chain is finite and duplicate-free even when the stored hierarchy
// contains a cycle.
func (s *Server) ListAreaAncestors(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}
	chain, err := s.areas.Ancestors(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	data := make([]domain.AreaSummary, len(chain))
	for i, a := range chain {
		data[i] = domain.AreaSummary{
			ID:         a.ID,
			Name:       a.Name,
			Capacity:   a.Capacity,
			TypeName:   a.Type.Name,
			Reservable: a.Reservable,
		}
		if sup := a.Super(); sup != nil {
			sid := sup.ID
			data[i].SuperID = &sid
		}
	}
	writeJSON(w, http.StatusOK, struct {
		Data []domain.AreaSummary `json:"data"`
	}{Data: data})
}

// AddAreaAdministrator handles POST /areas/{id}/administrators.
func (s *Server) AddAreaAdministrator(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := decodeBody(r, &body); err != nil || body.UserID == uuid.Nil {
		writeRequestError(w, "user_id is required")
		return
	}
	area, err := s.areas.AddAdministrator(r.Context(), areaID, actor, body.UserID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// RemoveAreaAdministrator handles DELETE /areas/{id}/administrators/{userID}.
func (s *Server) RemoveAreaAdministrator(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}
	userID, ok := pathUUID(r, "userID")
	if !ok {
		writeRequestError(w, "invalid user id")
		return
	}
	actor, ok := actorID(r)
	if !ok {
		writeRequestError(w, "missing or invalid X-User-ID header")
		return
	}
	area, err := s.areas.RemoveAdministrator(r.Context(), areaID, actor, userID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// ReplaceAreaSuperArea handles PUT /areas/{id}/super-area.
func (s *Server) ReplaceAreaSuperArea(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		SuperAreaID uuid.UUID `json:"super_area_id"`
	}
	if err := decodeBody(r, &body); err != nil || body.SuperAreaID == uuid.Nil {
		writeRequestError(w, "super_area_id is required")
		return
	}
	area, err := s.areas.ReplaceSuperArea(r.Context(), areaID, actor, body.SuperAreaID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// RemoveAreaSuperArea handles DELETE /areas/{id}/super-area.
func (s *Server) RemoveAreaSuperArea(w http.ResponseWriter, r *http.Request) {
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
	area, err := s.areas.RemoveSuperArea(r.Context(), areaID, actor)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// UpdateAreaDescription handles PUT /areas/{id}/description.
func (s *Server) UpdateAreaDescription(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		Description string `json:"description"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	area, err := s.areas.UpdateDescription(r.Context(), areaID, actor, body.Description)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// UpdateAreaCapacity handles PUT /areas/{id}/capacity.
func (s *Server) UpdateAreaCapacity(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		Capacity int `json:"capacity"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	area, err := s.areas.UpdateCapacity(r.Context(), areaID, actor, body.Capacity)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// AddAreaFeature handles POST /areas/{id}/features.
func (s *Server) AddAreaFeature(w http.ResponseWriter, r *http.Request) {
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
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil || body.Name == "" {
		writeRequestError(w, "name is required")
		return
	}
	area, err := s.areas.AddFeature(r.Context(), areaID, actor, body.Name)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// RemoveAreaFeature handles DELETE /areas/{id}/features/{name}.
func (s *Server) RemoveAreaFeature(w http.ResponseWriter, r *http.Request) {
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
	area, err := s.areas.RemoveFeature(r.Context(), areaID, actor, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areaToResponse(area))
}

// DeleteArea handles DELETE /areas/{id}.
func (s *Server) DeleteArea(w http.ResponseWriter, r *http.Request) {
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
	if err := s.areas.Delete(r.Context(), areaID, actor); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
