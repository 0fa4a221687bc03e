// Package handler implements the HTTP handlers for the Chairspace API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (area.go, reservation.go, etc.) but all share the same Server struct
// so they can access its dependencies.
//
// The acting user for privileged operations is taken from the X-User-ID
// header; authentication itself is a deployment concern handled in front of
// this service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/service"
)

// AreaServicer defines the business operations the area handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AreaServicer interface {
	Create(ctx context.Context, p service.CreateAreaParams) (*domain.Area, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Area, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.AreaSummary, int, error)
	ListChildren(ctx context.Context, id uuid.UUID) ([]domain.AreaSummary, error)
	Ancestors(ctx context.Context, id uuid.UUID) ([]*domain.Area, error)
	AddAdministrator(ctx context.Context, areaID, actorID, userID uuid.UUID) (*domain.Area, error)
	RemoveAdministrator(ctx context.Context, areaID, actorID, userID uuid.UUID) (*domain.Area, error)
	ReplaceSuperArea(ctx context.Context, areaID, actorID, newSuperID uuid.UUID) (*domain.Area, error)
	RemoveSuperArea(ctx context.Context, areaID, actorID uuid.UUID) (*domain.Area, error)
	UpdateDescription(ctx context.Context, areaID, actorID uuid.UUID, description string) (*domain.Area, error)
	UpdateCapacity(ctx context.Context, areaID, actorID uuid.UUID, capacity int) (*domain.Area, error)
	AddFeature(ctx context.Context, areaID, actorID uuid.UUID, featureName string) (*domain.Area, error)
	RemoveFeature(ctx context.Context, areaID, actorID uuid.UUID, featureName string) (*domain.Area, error)
	Delete(ctx context.Context, areaID, actorID uuid.UUID) error
}

// ReservationServicer defines the business operations the reservation
// handlers depend on.
type ReservationServicer interface {
	Create(ctx context.Context, p service.CreateReservationParams) (domain.ReservationRecord, error)
	Cancel(ctx context.Context, reservationID, actorID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationRecord, error)
	ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error)
	ListByAreaBetween(ctx context.Context, areaID uuid.UUID, from, until time.Time) ([]domain.ReservationRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error)
	Frequency(ctx context.Context, areaID uuid.UUID, year, month, day int) (float64, error)
}

// PlanServicer defines the business operations the plan handlers depend on.
type PlanServicer interface {
	Create(ctx context.Context, p service.CreatePlanParams) (domain.Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error)
	ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.Plan, int, error)
	Delete(ctx context.Context, planID, actorID uuid.UUID) error
}

// UserServicer defines the business operations the user handlers depend on.
type UserServicer interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogServicer defines the business operations the area-type and feature
// handlers depend on.
type CatalogServicer interface {
	CreateAreaType(ctx context.Context, t domain.AreaType) (domain.AreaType, error)
	ListAreaTypes(ctx context.Context) ([]domain.AreaType, error)
	DeleteAreaType(ctx context.Context, name string) error
	CreateFeature(ctx context.Context, f domain.Feature) (domain.Feature, error)
	ListFeatures(ctx context.Context) ([]domain.Feature, error)
	DeleteFeature(ctx context.Context, name string) error
}

// Server holds the handler dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	areas        AreaServicer
	reservations ReservationServicer
	users        UserServicer
	catalog      CatalogServicer
	plans        PlanServicer
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(areas AreaServicer, reservations ReservationServicer, users UserServicer, catalog CatalogServicer, plans PlanServicer, log *slog.Logger) *Server {
	return &Server{
		areas:        areas,
		reservations: reservations,
		users:        users,
		catalog:      catalog,
		plans:        plans,
		log:          log,
	}
}

// Routes returns the chi router with every API endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.CreateUser)
		r.Get("/", s.ListUsers)
		r.Get("/{id}", s.GetUser)
		r.Delete("/{id}", s.DeleteUser)
		r.Get("/{id}/reservations", s.ListUserReservations)
	})

	r.Route("/area-types", func(r chi.Router) {
		r.Post("/", s.CreateAreaType)
		r.Get("/", s.ListAreaTypes)
		r.Delete("/{name}", s.DeleteAreaType)
	})

	r.Route("/features", func(r chi.Router) {
		r.Post("/", s.CreateFeature)
		r.Get("/", s.ListFeatures)
		r.Delete("/{name}", s.DeleteFeature)
	})

	r.Route("/areas", func(r chi.Router) {
		r.Post("/", s.CreateArea)
		r.Get("/", s.ListAreas)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetArea)
			r.Delete("/", s.DeleteArea)
			r.Get("/children", s.ListAreaChildren)
			r.Get("/ancestors", s.ListAreaAncestors)
			r.Post("/administrators", s.AddAreaAdministrator)
			r.Delete("/administrators/{userID}", s.RemoveAreaAdministrator)
			r.Put("/super-area", s.ReplaceAreaSuperArea)
			r.Delete("/super-area", s.RemoveAreaSuperArea)
			r.Put("/description", s.UpdateAreaDescription)
			r.Put("/capacity", s.UpdateAreaCapacity)
			r.Post("/features", s.AddAreaFeature)
			r.Delete("/features/{name}", s.RemoveAreaFeature)
			r.Post("/reservations", s.CreateReservation)
			r.Get("/reservations", s.ListAreaReservations)
			r.Get("/frequency", s.GetAreaFrequency)
			r.Post("/plans", s.CreatePlan)
			r.Get("/plans", s.ListAreaPlans)
		})
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Get("/{id}", s.GetReservation)
		r.Delete("/{id}", s.CancelReservation)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Get("/{id}", s.GetPlan)
		r.Delete("/{id}", s.DeletePlan)
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
