package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"outreach-records/internal/repository"
)

func newTestUserService(t *testing.T) (*userService, *memUsers) {
	t.Helper()
	users := newMemUsers(&testClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)})
	svc := NewUserService(users).(*userService)
	svc.cost = bcrypt.MinCost
	return svc, users
}

func TestRegister_HashesPasswordAndStamps(t *testing.T) {
	svc, users := newTestUserService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    " Demo@Example.com ",
		Password: "demo12345",
		Name:     "Demo User",
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "demo@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.True(t, user.HasIdentity())
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	assert.Equal(t, "admin", user.CreatedBy)

	stored, err := users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "demo12345", stored.PasswordHash)
	assert.True(t, checkPassword(stored.PasswordHash, "demo12345"))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing email":  {Password: "longenough"},
		"invalid email":  {Email: "nope", Password: "longenough"},
		"missing pass":   {Email: "a@b.c"},
		"short password": {Email: "a@b.c", Password: "short"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, in, "")
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "A@B.C", Password: "password2"}, "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "a@b.c", "password1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate(ctx, "a@b.c", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@b.c", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile_KeepsCreatedAtAndPassword(t *testing.T) {
	svc, users := newTestUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "admin")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, registered.ID, ProfileInput{Name: "Alice", Address: "1 Main St"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, registered.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(registered.UpdatedAt))
	assert.Equal(t, "admin", updated.CreatedBy)
	assert.Equal(t, "alice", updated.UpdatedBy)
	assert.Equal(t, "Alice", updated.Name)

	stored, err := users.Get(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, checkPassword(stored.PasswordHash, "password1"))

	_, err = svc.UpdateProfile(ctx, "missing", ProfileInput{}, "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListAndDeleteUsers(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].PasswordHash)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
