package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chairspace/backend/internal/domain"
)

// errorResponse is the JSON envelope for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Blocking *blockingInfo `json:"blocking,omitempty"`
}

// blockingInfo reports the reservation standing in the way of a rejected one.
type blockingInfo struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// pagination echoes the effective paging parameters on list responses.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// writeJSON serializes v with the given status. Encoding failures are logged
// by the caller's middleware via the 500 that follows a partial write; there
// is nothing useful to do about them here.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service/domain error onto an HTTP status and writes the
// JSON error envelope. The mapping mirrors the domain's error taxonomy:
//
//	ErrArgument   → 400  (caller bug, not user input)
//	ErrNotFound   → 404
//	ErrConflict   → 409  (with the blocking reservation's bounds)
//	ErrAdminCount → 409
//	ErrState      → 409
//	ErrValidation → 422
//	anything else → 500
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorDetail{
			Code:    "reservation_conflict",
			Message: unwrapMessage(err),
			Blocking: &blockingInfo{
				ReservationID: conflict.BlockingID,
				Start:         conflict.Start,
				End:           conflict.End,
			},
		}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorDetail{
			Code: "not_found", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{
			Code: "validation_error", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrAdminCount):
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorDetail{
			Code: "admin_count", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorDetail{
			Code: "invalid_state", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{
			Code: "bad_request", Message: unwrapMessage(err),
		}})
	default:
		log.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorDetail{
			Code: "internal_error", Message: "internal server error",
		}})
	}
}

// writeRequestError rejects a request before it reaches the service layer
// (missing or malformed body, bad path parameter).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{
		Code: "bad_request", Message: message,
	}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.AreaService.Create: validation error: name must not
// be blank" → "name must not be blank". The sentinel text itself is dropped;
// the HTTP code already carries the kind.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrValidation,
		domain.ErrArgument,
		domain.ErrAdminCount,
		domain.ErrState,
		domain.ErrNotFound,
	} {
		marker := sentinel.Error() + ": "
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	// No sentinel marker; strip the call-site prefixes instead.
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// decodeBody parses the request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// actorID extracts the acting user's id from the X-User-ID header.
func actorID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get("X-User-ID"))
	return id, err == nil
}

// queryPagination builds pagination params from ?page= and ?limit=.
func queryPagination(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			page = &n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = &n
		}
	}
	return domain.NewPaginationParams(page, limit)
}

// parsePositiveInt parses s as a base-10 integer of at least 1.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// queryTime parses the named query parameter as RFC 3339. An absent
// parameter yields the zero time, letting the service apply its default.
func queryTime(r *http.Request, name string) (time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, err == nil
}

// queryInt parses the named query parameter as a non-negative integer.
// An absent parameter yields zero, letting the service apply its default.
func queryInt(r *http.Request, name string) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
