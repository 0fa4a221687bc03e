package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs. No mock generation
// library required for interfaces this size.

type mockAreaRepo struct {
	create        func(ctx context.Context, area *domain.Area) error
	getByID       func(ctx context.Context, id uuid.UUID) (*domain.Area, error)
	list          func(ctx context.Context, params domain.PaginationParams) ([]domain.AreaSummary, int, error)
	listChildren  func(ctx context.Context, id uuid.UUID) ([]domain.AreaSummary, error)
	countChildren func(ctx context.Context, id uuid.UUID) (int, error)
	update        func(ctx context.Context, area *domain.Area) error
	delete        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockAreaRepo) Create(ctx context.Context, area *domain.Area) error {
	return m.create(ctx, area)
}
func (m *mockAreaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Area, error) {
	return m.getByID(ctx, id)
}
func (m *mockAreaRepo) List(ctx context.Context, params domain.PaginationParams) ([]domain.AreaSummary, int, error) {
	return m.list(ctx, params)
}
func (m *mockAreaRepo) ListChildren(ctx context.Context, id uuid.UUID) ([]domain.AreaSummary, error) {
	return m.listChildren(ctx, id)
}
func (m *mockAreaRepo) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	return m.countChildren(ctx, id)
}
func (m *mockAreaRepo) Update(ctx context.Context, area *domain.Area) error {
	return m.update(ctx, area)
}
func (m *mockAreaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.AreaRepo = (*mockAreaRepo)(nil)

type mockUserRepo struct {
	create  func(ctx context.Context, user domain.User) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
	list    func(ctx context.Context) ([]domain.User, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockReservationRepo struct {
	create            func(ctx context.Context, rec domain.ReservationRecord) error
	getByID           func(ctx context.Context, id uuid.UUID) (domain.ReservationRecord, error)
	listByArea        func(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error)
	listByUser        func(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error)
	listByAreaBetween func(ctx context.Context, areaID uuid.UUID, from, until time.Time) ([]domain.ReservationRecord, error)
	listActiveByArea  func(ctx context.Context, areaID uuid.UUID, after time.Time) ([]domain.ReservationRecord, error)
	countByArea       func(ctx context.Context, areaID uuid.UUID) (int, error)
	delete            func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReservationRepo) Create(ctx context.Context, rec domain.ReservationRecord) error {
	return m.create(ctx, rec)
}
func (m *mockReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationRecord, error) {
	return m.getByID(ctx, id)
}
func (m *mockReservationRepo) ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error) {
	return m.listByArea(ctx, areaID, params)
}
func (m *mockReservationRepo) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.ReservationRecord, int, error) {
	return m.listByUser(ctx, userID, params)
}
func (m *mockReservationRepo) ListByAreaBetween(ctx context.Context, areaID uuid.UUID, from, until time.Time) ([]domain.ReservationRecord, error) {
	return m.listByAreaBetween(ctx, areaID, from, until)
}
func (m *mockReservationRepo) ListActiveByArea(ctx context.Context, areaID uuid.UUID, after time.Time) ([]domain.ReservationRecord, error) {
	return m.listActiveByArea(ctx, areaID, after)
}
func (m *mockReservationRepo) CountByArea(ctx context.Context, areaID uuid.UUID) (int, error) {
	return m.countByArea(ctx, areaID)
}
func (m *mockReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

type mockAreaTypeRepo struct {
	create    func(ctx context.Context, t domain.AreaType) error
	getByName func(ctx context.Context, name string) (domain.AreaType, error)
	list      func(ctx context.Context) ([]domain.AreaType, error)
	delete    func(ctx context.Context, name string) error
}

func (m *mockAreaTypeRepo) Create(ctx context.Context, t domain.AreaType) error {
	return m.create(ctx, t)
}
func (m *mockAreaTypeRepo) GetByName(ctx context.Context, name string) (domain.AreaType, error) {
	return m.getByName(ctx, name)
}
func (m *mockAreaTypeRepo) List(ctx context.Context) ([]domain.AreaType, error) {
	return m.list(ctx)
}
func (m *mockAreaTypeRepo) Delete(ctx context.Context, name string) error {
	return m.delete(ctx, name)
}

var _ repo.AreaTypeRepo = (*mockAreaTypeRepo)(nil)

type mockFeatureRepo struct {
	create    func(ctx context.Context, f domain.Feature) error
	getByName func(ctx context.Context, name string) (domain.Feature, error)
	list      func(ctx context.Context) ([]domain.Feature, error)
	delete    func(ctx context.Context, name string) error
}

func (m *mockFeatureRepo) Create(ctx context.Context, f domain.Feature) error {
	return m.create(ctx, f)
}
func (m *mockFeatureRepo) GetByName(ctx context.Context, name string) (domain.Feature, error) {
	return m.getByName(ctx, name)
}
func (m *mockFeatureRepo) List(ctx context.Context) ([]domain.Feature, error) {
	return m.list(ctx)
}
func (m *mockFeatureRepo) Delete(ctx context.Context, name string) error {
	return m.delete(ctx, name)
}

var _ repo.FeatureRepo = (*mockFeatureRepo)(nil)

type mockPlanRepo struct {
	create      func(ctx context.Context, plan domain.Plan) error
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Plan, error)
	listByArea  func(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.Plan, int, error)
	coversRange func(ctx context.Context, areaID uuid.UUID, start, end time.Time) (bool, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPlanRepo) Create(ctx context.Context, plan domain.Plan) error {
	return m.create(ctx, plan)
}
func (m *mockPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	return m.getByID(ctx, id)
}
func (m *mockPlanRepo) ListByArea(ctx context.Context, areaID uuid.UUID, params domain.PaginationParams) ([]domain.Plan, int, error) {
	return m.listByArea(ctx, areaID, params)
}
func (m *mockPlanRepo) CoversRange(ctx context.Context, areaID uuid.UUID, start, end time.Time) (bool, error) {
	return m.coversRange(ctx, areaID, start, end)
}
func (m *mockPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.PlanRepo = (*mockPlanRepo)(nil)

// noPlans is a PlanRepo with no plans at all; non-reservable areas stay shut.
func noPlans() *mockPlanRepo {
	return &mockPlanRepo{
		coversRange: func(context.Context, uuid.UUID, time.Time, time.Time) (bool, error) {
			return false, nil
		},
	}
}

// memPlans is an in-memory PlanRepo for exercising plan-gated admission.
type memPlans struct {
	plans map[uuid.UUID]domain.Plan
}

func newMemPlans() *memPlans {
	return &memPlans{plans: make(map[uuid.UUID]domain.Plan)}
}

func (m *memPlans) Create(_ context.Context, plan domain.Plan) error {
	m.plans[plan.ID] = plan
	return nil
}

func (m *memPlans) GetByID(_ context.Context, id uuid.UUID) (domain.Plan, error) {
	plan, ok := m.plans[id]
	if !ok {
		return domain.Plan{}, domain.ErrNotFound
	}
	return plan, nil
}

func (m *memPlans) ListByArea(_ context.Context, areaID uuid.UUID, _ domain.PaginationParams) ([]domain.Plan, int, error) {
	var out []domain.Plan
	for _, plan := range m.plans {
		if plan.AreaID == areaID {
			out = append(out, plan)
		}
	}
	return out, len(out), nil
}

func (m *memPlans) CoversRange(_ context.Context, areaID uuid.UUID, start, end time.Time) (bool, error) {
	for _, plan := range m.plans {
		if plan.AreaID == areaID && plan.Covers(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPlans) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

var _ repo.PlanRepo = (*memPlans)(nil)

// ---- shared fixtures -------------------------------------------------------

// fixedClock pins "now" so time-sensitive rules are deterministic.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var _ domain.Clock = fixedClock{}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// at returns testNow shifted by d.
func at(d time.Duration) time.Time { return testNow.Add(d) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userFixture(first string) domain.User {
	return domain.User{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  "Tester",
		Email:     first + "@example.com",
		CreatedAt: testNow,
	}
}

// areaFixture builds a standalone reservable area with the given direct admins.
func areaFixture(name string, admins ...domain.User) *domain.Area {
	return domain.RehydrateArea(
		uuid.New(),
		name,
		8,
		"",
		"",
		true,
		domain.AreaType{Name: "meeting room"},
		nil,
		admins,
		nil,
		testNow, testNow,
	)
}

// userLookup returns a UserRepo that resolves exactly the given users.
func userLookup(users ...domain.User) *mockUserRepo {
	byID := make(map[uuid.UUID]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mockUserRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			u, ok := byID[id]
			if !ok {
				return domain.User{}, domain.ErrNotFound
			}
			return u, nil
		},
	}
}
