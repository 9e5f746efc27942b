package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/models"
)

func registerReq(username string, category models.Category) models.RegisterRequest {
	return models.RegisterRequest{
		Username: username,
		Password: "password1",
		Name:     "Name " + username,
		Category: string(category),
	}
}

func TestAuthService_RegisterTwiceFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, token, err := f.auth.Register(ctx, registerReq("alice", models.CategorySeller))
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEqual(t, "password1", first.Password)

	second := registerReq("alice", models.CategoryCustomer)
	second.Password = "other-password"
	_, _, err = f.auth.Register(ctx, second)
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)

	stored, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, models.CategorySeller, stored.Category)

	_, _, err = f.auth.Login(ctx, models.LoginRequest{Username: "alice", Password: "password1"})
	assert.NoError(t, err)
}

func TestAuthService_LoginWrongPasswordCreatesNoSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, token, err := f.auth.Register(ctx, registerReq("bob", models.CategoryCustomer))
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, token))
	require.Equal(t, 0, f.store.Len())

	_, token, err = f.auth.Login(ctx, models.LoginRequest{Username: "bob", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Equal(t, 0, f.store.Len())

	_, _, err = f.auth.Login(ctx, models.LoginRequest{Username: "nobody", Password: "password1"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Equal(t, 0, f.store.Len())
}

func TestAuthService_LoginAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	registered, _, err := f.auth.Register(ctx, registerReq("carol", models.CategorySeller))
	require.NoError(t, err)

	user, token, err := f.auth.Login(ctx, models.LoginRequest{Username: "carol", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	current, err := f.auth.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, current.ID)

	require.NoError(t, f.auth.Logout(ctx, token))
	_, err = f.auth.CurrentUser(ctx, token)
	assert.ErrorIs(t, err, models.ErrSessionInvalid)
}

func TestAuthService_LoginFederatedFindsOrCreates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, _, err := f.auth.LoginFederated(ctx, "google-sub-1")
	require.NoError(t, err)
	assert.Empty(t, first.Category)
	assert.Empty(t, first.Password)

	again, _, err := f.auth.LoginFederated(ctx, "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, _, err = f.auth.LoginFederated(ctx, "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	var total int
	for _, c := range []models.Category{"", models.CategorySeller, models.CategoryCustomer} {
		users, err := f.users.FindByCategory(ctx, c)
		require.NoError(t, err)
		total += len(users)
	}
	assert.Equal(t, 1, total)
}

func TestAuthService_FederatedUserCannotUsePasswordLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, _, err := f.auth.LoginFederated(ctx, "sub")
	require.NoError(t, err)

	_, _, err = f.auth.Login(ctx, models.LoginRequest{Username: "", Password: ""})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_CompleteProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	user, _, err := f.auth.LoginFederated(ctx, "sub")
	require.NoError(t, err)

	updated, err := f.auth.CompleteProfile(ctx, user.ID, models.ProfileRequest{Name: "Fed", Category: "Customer"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCustomer, updated.Category)
	assert.Equal(t, "/"+user.ID.String()+"/custDash", updated.LandingPath())

	_, err = f.auth.CompleteProfile(ctx, user.ID, models.ProfileRequest{Name: "Fed", Category: "Seller"})
	assert.ErrorIs(t, err, models.ErrCategoryAlreadySet)

	_, err = f.auth.CompleteProfile(ctx, uuid.New(), models.ProfileRequest{Name: "x", Category: "Seller"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthService_SendsWelcomeMail(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	req := registerReq("dave", models.CategoryCustomer)
	req.Email = "dave@example.com"
	_, _, err := f.auth.Register(ctx, req)
	require.NoError(t, err)

	select {
	case to := <-f.mailer.sent:
		assert.Equal(t, "dave@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("welcome mail was not sent")
	}
}
