package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chairspace/backend/internal/domain"
	"github.com/chairspace/backend/internal/service"
)

func echoUserRepo() *mockUserRepo {
	return &mockUserRepo{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			u.ID = uuid.New()
			return u, nil
		},
	}
}

func TestUserService_Create_Valid(t *testing.T) {
	svc := service.NewUserService(echoUserRepo())

	got, err := svc.Create(context.Background(), domain.User{
		FirstName: "Alice",
		LastName:  "Anderson",
		Email:     "alice@example.com",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Alice", got.FirstName)
}

func TestUserService_Create_MissingFirstName(t *testing.T) {
	svc := service.NewUserService(echoUserRepo())

	_, err := svc.Create(context.Background(), domain.User{
		FirstName: "   ",
		LastName:  "Anderson",
		Email:     "alice@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Create_InvalidEmail(t *testing.T) {
	svc := service.NewUserService(echoUserRepo())

	_, err := svc.Create(context.Background(), domain.User{
		FirstName: "Alice",
		LastName:  "Anderson",
		Email:     "not-an-email",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_List_NilBecomesEmpty(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		list: func(_ context.Context) ([]domain.User, error) { return nil, nil },
	})

	users, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	})

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
