package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chairspace/backend/internal/domain"
)

type createNamedRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateAreaType handles POST /area-types.
func (s *Server) CreateAreaType(w http.ResponseWriter, r *http.Request) {
	var body createNamedRequest
	if err := decodeBody(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	t, err := s.catalog.CreateAreaType(r.Context(), domain.AreaType{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListAreaTypes handles GET /area-types.
func (s *Server) ListAreaTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListAreaTypes(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []domain.AreaType `json:"data"`
	}{Data: types})
}

// DeleteAreaType handles DELETE /area-types/{name}.
func (s *Server) DeleteAreaType(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteAreaType(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateFeature handles POST /features.
func (s *Server) CreateFeature(w http.ResponseWriter, r *http.Request) {
	var body createNamedRequest
	if err := decodeBody(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	f, err := s.catalog.CreateFeature(r.Context(), domain.Feature{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// ListFeatures handles GET /features.
func (s *Server) ListFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := s.catalog.ListFeatures(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []domain.Feature `json:"data"`
	}{Data: features})
}

// DeleteFeature handles DELETE /features/{name}.
func (s *Server) DeleteFeature(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteFeature(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
