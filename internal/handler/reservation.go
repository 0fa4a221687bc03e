package handler

import (
	"net/http"
	"time"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/service"
)

// createReservationRequest is the POST /areas/{id}/reservations body. The
// reserving user is the actor from the X-User-ID header.
type createReservationRequest struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Comment string    `json:"comment"`
}

// CreateReservation handles POST /areas/{id}/reservations.
func (s *Server) CreateReservation(w http.ResponseWriter, r *http.Request) {
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
	var body createReservationRequest
	if err := decodeBody(r, &body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	rec, err := s.reservations.Create(r.Context(), service.CreateReservationParams{
		AreaID:  areaID,
		UserID:  actor,
		Start:   body.Start,
		End:     body.End,
		Comment: body.Comment,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// GetReservation handles GET /reservations/{id}.
func (s *Server) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid reservation id")
		return
	}
	rec, err := s.reservations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CancelReservation handles DELETE /reservations/{id}. Only the reserving
// user or an effective administrator of the area may cancel.
func (s *Server) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid reservation id")
		return
	}
	actor, ok := actorID(r)
	if !ok {
		writeRequestError(w, "missing or invalid X-User-ID header")
		return
	}
	if err := s.reservations.Cancel(r.Context(), id, actor); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAreaReservations handles GET /areas/{id}/reservations.
// Without query parameters it returns a paginated listing. With ?from= or
// ?until= (RFC 3339) it returns every reservation overlapping the window
// instead; a missing from defaults to now, a missing until to twelve hours
// past from.
func (s *Server) ListAreaReservations(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}

	if r.URL.Query().Has("from") || r.URL.Query().Has("until") {
		from, ok := queryTime(r, "from")
		if !ok {
			writeRequestError(w, "invalid from timestamp")
			return
		}
		until, ok := queryTime(r, "until")
		if !ok {
			writeRequestError(w, "invalid until timestamp")
			return
		}
		recs, err := s.reservations.ListByAreaBetween(r.Context(), areaID, from, until)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []domain.ReservationRecord `json:"data"`
		}{Data: recs})
		return
	}

	params := queryPagination(r)
	recs, total, err := s.reservations.ListByArea(r.Context(), areaID, params)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data       []domain.ReservationRecord `json:"data"`
		Pagination pagination                 `json:"pagination"`
	}{
		Data:       recs,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetAreaFrequency handles GET /areas/{id}/frequency.
// ?year= and ?month= default to the current ones; with ?day= the fraction
// covers that single day, otherwise the whole month.
func (s *Server) GetAreaFrequency(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid area id")
		return
	}
	year, ok := queryInt(r, "year")
	if !ok {
		writeRequestError(w, "invalid year")
		return
	}
	month, ok := queryInt(r, "month")
	if !ok {
		writeRequestError(w, "invalid month")
		return
	}
	day, ok := queryInt(r, "day")
	if !ok {
		writeRequestError(w, "invalid day")
		return
	}

	freq, err := s.reservations.Frequency(r.Context(), areaID, year, month, day)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Frequency float64 `json:"frequency"`
	}{Frequency: freq})
}

// ListUserReservations handles GET /users/{id}/reservations.
func (s *Server) ListUserReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(r, "id")
	if !ok {
		writeRequestError(w, "invalid user id")
		return
	}
	params := queryPagination(r)
	recs, total, err := s.reservations.ListByUser(r.Context(), userID, params)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data       []domain.ReservationRecord `json:"data"`
		Pagination pagination                 `json:"pagination"`
	}{
		Data:       recs,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}
