package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/repo"
)

// areaFixtures bundles every repo an area test needs, all on one transaction.
type areaFixtures struct {
	tx       pgx.Tx
	areas    repo.AreaRepo
	users    repo.UserRepo
	types    repo.AreaTypeRepo
	features repo.FeatureRepo

	roomType domain.AreaType
	admin    domain.User
}

// newAreaFixtures seeds the vocabulary and one admin user the area tests
// build on.
func newAreaFixtures(t *testing.T) *areaFixtures {
	t.Helper()
	tx := newTestTx(t)
	f := &areaFixtures{
		tx:       tx,
		areas:    repo.NewAreaRepo(tx),
		users:    repo.NewUserRepo(tx),
		types:    repo.NewAreaTypeRepo(tx),
		features: repo.NewFeatureRepo(tx),
	}

	ctx := context.Background()
	require.NoError(t, f.types.Create(ctx, domain.AreaType{Name: "meeting room"}))
	f.roomType = domain.AreaType{Name: "meeting room"}
	f.admin = createUser(t, f.users, "alice")
	return f
}

// buildArea constructs and persists an area administered by f.admin.
func (f *areaFixtures) buildArea(t *testing.T, name string, super *domain.Area) *domain.Area {
	t.Helper()
	b := domain.NewAreaBuilder(name, 8, &f.roomType).Administrator(&f.admin)
	if super != nil {
		b.SuperArea(super)
	}
	area, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, f.areas.Create(context.Background(), area))
	return area
}

func TestAreaRepo_CreateAndGet(t *testing.T) {
	f := newAreaFixtures(t)
	created := f.buildArea(t, "Room 1", nil)

	got, err := f.areas.GetByID(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Room 1", got.Name)
	assert.Equal(t, 8, got.Capacity)
	assert.Equal(t, "meeting room", got.Type.Name)
	require.Len(t, got.DirectAdministrators(), 1)
	assert.Equal(t, f.admin.ID, got.DirectAdministrators()[0].ID)
}

func TestAreaRepo_GetByID_NotFound(t *testing.T) {
	f := newAreaFixtures(t)

	_, err := f.areas.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAreaRepo_GetByID_LoadsSuperChain(t *testing.T) {
	f := newAreaFixtures(t)
	building := f.buildArea(t, "Office", nil)
	floor := f.buildArea(t, "Floor 1", building)
	room := f.buildArea(t, "Room 1A", floor)

	got, err := f.areas.GetByID(context.Background(), room.ID)

	require.NoError(t, err)
	require.NotNil(t, got.Super())
	assert.Equal(t, floor.ID, got.Super().ID)
	require.NotNil(t, got.Super().Super())
	assert.Equal(t, building.ID, got.Super().Super().ID)
	assert.Nil(t, got.Super().Super().Super())
}

func TestAreaRepo_GetByID_LoadsFeatures(t *testing.T) {
	f := newAreaFixtures(t)
	ctx := context.Background()
	require.NoError(t, f.features.Create(ctx, domain.Feature{Name: "projector"}))

	area, err := domain.NewAreaBuilder("Room 1", 8, &f.roomType).
		Administrator(&f.admin).
		Feature(&domain.Feature{Name: "projector"}).
		Build()
	require.NoError(t, err)
	require.NoError(t, f.areas.Create(ctx, area))

	got, err := f.areas.GetByID(ctx, area.ID)

	require.NoError(t, err)
	assert.True(t, got.HasFeature("projector"))
}

// A cyclic super chain in the table must load as a finite object graph: the
// walk is cut at the first repeated id, so the loaded area's ancestors are
// duplicate-free and terminate.
func TestAreaRepo_GetByID_CycleSafe(t *testing.T) {
	f := newAreaFixtures(t)
	ctx := context.Background()
	a := f.buildArea(t, "A", nil)
	b := f.buildArea(t, "B", a)

	// Close the loop behind the domain's back.
	_, err := f.tx.Exec(ctx,
		`UPDATE areas SET super_area_id = $1 WHERE area_id = $2`, b.ID, a.ID)
	require.NoError(t, err)

	got, err := f.areas.GetByID(ctx, b.ID)

	require.NoError(t, err)
	chain, cycle := got.Ancestors()
	assert.False(t, cycle, "load already cut the loop")
	require.Len(t, chain, 1)
	assert.Equal(t, a.ID, chain[0].ID)
	assert.Equal(t, 1, got.EffectiveAdminCount())
}

func TestAreaRepo_List_Paginated(t *testing.T) {
	f := newAreaFixtures(t)
	f.buildArea(t, "Room A", nil)
	f.buildArea(t, "Room B", nil)
	f.buildArea(t, "Room C", nil)

	page1 := 1
	limit := 2
	summaries, total, err := f.areas.List(context.Background(),
		domain.NewPaginationParams(&page1, &limit))

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "Room A", summaries[0].Name)
}

func TestAreaRepo_ListChildren(t *testing.T) {
	f := newAreaFixtures(t)
	floor := f.buildArea(t, "Floor 1", nil)
	f.buildArea(t, "Room 1B", floor)
	f.buildArea(t, "Room 1A", floor)
	f.buildArea(t, "Lonely Room", nil)

	children, err := f.areas.ListChildren(context.Background(), floor.ID)

	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Room 1A", children[0].Name)
	assert.Equal(t, "Room 1B", children[1].Name)
	require.NotNil(t, children[0].SuperID)
	assert.Equal(t, floor.ID, *children[0].SuperID)

	n, err := f.areas.CountChildren(context.Background(), floor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAreaRepo_Update_ReplacesLinks(t *testing.T) {
	f := newAreaFixtures(t)
	ctx := context.Background()
	area := f.buildArea(t, "Room 1", nil)
	bob := createUser(t, f.users, "bob")

	require.NoError(t, area.AddAdministrator(&bob))
	require.NoError(t, area.UpdateDescription("refurbished"))
	require.NoError(t, f.areas.Update(ctx, area))

	got, err := f.areas.GetByID(ctx, area.ID)

	require.NoError(t, err)
	assert.Equal(t, "refurbished", got.Description)
	assert.Len(t, got.DirectAdministrators(), 2)
}

func TestAreaRepo_Update_NotFound(t *testing.T) {
	f := newAreaFixtures(t)
	area, err := domain.NewAreaBuilder("Ghost", 1, &f.roomType).
		Administrator(&f.admin).
		Build()
	require.NoError(t, err)

	err = f.areas.Update(context.Background(), area)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAreaRepo_Delete(t *testing.T) {
	f := newAreaFixtures(t)
	area := f.buildArea(t, "Room 1", nil)

	require.NoError(t, f.areas.Delete(context.Background(), area.ID))

	_, err := f.areas.GetByID(context.Background(), area.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.areas.Delete(context.Background(), area.ID), domain.ErrNotFound)
}
