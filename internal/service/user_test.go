package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ecshop/internal/auth"
	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/store"
)

func newUserFixture(t *testing.T) (*UserService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewUserService(st), st
}

func registerTestUser(t *testing.T, svc *UserService) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		FullName: "Alice Example",
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func TestUserService_Register(t *testing.T) {
	svc, _ := newUserFixture(t)

	u := registerTestUser(t, svc)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	// Stored hash, never the plaintext.
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, auth.CheckPassword("password123", u.PasswordHash))
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Username: "other",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	svc, _ := newUserFixture(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "other@example.com",
		Username: "alice",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUserService_Register_ShortPassword(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "short",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestUserService_Register_UnknownRole(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _ := newUserFixture(t)
	u := registerTestUser(t, svc)

	got, err := svc.Authenticate(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	svc, _ := newUserFixture(t)
	registerTestUser(t, svc)

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_Authenticate_UnknownEmail(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_Authenticate_Deactivated(t *testing.T) {
	svc, st := newUserFixture(t)
	ctx := context.Background()
	u := registerTestUser(t, svc)

	u.IsActive = false
	require.NoError(t, st.PutUser(ctx, u))

	_, err := svc.Authenticate(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUserDeactivated)
}

func TestUserService_Update_Partial(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()
	u := registerTestUser(t, svc)

	name := "Alice B. Example"
	updated, err := svc.Update(ctx, u.ID, UserUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
	assert.Equal(t, "alice@example.com", updated.Email)

	// Password change re-hashes and old password stops working.
	newPassword := "newpassword456"
	_, err = svc.Update(ctx, u.ID, UserUpdate{Password: &newPassword})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "alice@example.com", newPassword)
	assert.NoError(t, err)
}

func TestUserService_Delete(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()
	u := registerTestUser(t, svc)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), domain.ErrUserNotFound)

	_, err := svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
