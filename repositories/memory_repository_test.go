package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/models"
)

func snapshot(name string) models.ItemSnapshot {
	return models.ItemSnapshot{ID: uuid.New(), ItemName: name, Price: 1, Quantity: 1}
}

func TestMemoryUserRepository_CreateRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	first := &models.User{Username: "alice", Name: "Alice", Category: models.CategorySeller}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &models.User{Username: "alice", Name: "Mallory", Category: models.CategoryCustomer})
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)

	stored, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, models.CategorySeller, stored.Category)
}

func TestMemoryUserRepository_FindMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = repo.PushCartItem(ctx, uuid.New(), snapshot("x"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryUserRepository_FindOrCreateByGoogleID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	first, created, err := repo.FindOrCreateByGoogleID(ctx, "sub-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, first.Category)

	again, created, err := repo.FindOrCreateByGoogleID(ctx, "sub-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}

func TestMemoryUserRepository_CartOperations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	user := &models.User{Username: "bob", Category: models.CategoryCustomer}
	require.NoError(t, repo.Create(ctx, user))

	a, b, c := snapshot("a"), snapshot("b"), snapshot("c")
	for _, s := range []models.ItemSnapshot{a, b, c} {
		require.NoError(t, repo.PushCartItem(ctx, user.ID, s))
	}

	require.NoError(t, repo.PullCartItem(ctx, user.ID, b.ID))

	updated := a
	updated.ItemName = "a-2"
	require.NoError(t, repo.ReplaceCartItem(ctx, user.ID, updated))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.CartItems, 2)
	assert.Equal(t, "a-2", stored.CartItems[0].ItemName)
	assert.Equal(t, c.ID, stored.CartItems[1].ID)

	moved, err := repo.MoveCartToHistory(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	stored, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CartItems)
	assert.Len(t, stored.History, 2)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	user := &models.User{Username: "carol"}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.PushCartItem(ctx, user.ID, snapshot("a")))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	got.CartItems[0].ItemName = "tampered"

	again, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.CartItems[0].ItemName)
}

func TestMemoryUserRepository_FindByCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "s1", Category: models.CategorySeller}))
	require.NoError(t, repo.Create(ctx, &models.User{Username: "c1", Category: models.CategoryCustomer}))
	require.NoError(t, repo.Create(ctx, &models.User{Username: "c2", Category: models.CategoryCustomer}))
	_, _, err := repo.FindOrCreateByGoogleID(ctx, "sub")
	require.NoError(t, err)

	customers, err := repo.FindByCategory(ctx, models.CategoryCustomer)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "c1", customers[0].Username)
	assert.Equal(t, "c2", customers[1].Username)
}

func TestMemoryUserRepository_SetProfileOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user, _, err := repo.FindOrCreateByGoogleID(ctx, "sub")
	require.NoError(t, err)

	require.NoError(t, repo.SetProfile(ctx, user.ID, "Dana", models.CategoryCustomer))
	err = repo.SetProfile(ctx, user.ID, "Dana", models.CategorySeller)
	assert.ErrorIs(t, err, models.ErrCategoryAlreadySet)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCustomer, stored.Category)
}

func TestMemoryItemRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryItemRepository()

	item := &models.Item{ItemName: "Widget", Price: 10, Quantity: 5, ItemCategory: "Tools", CreatorID: "u1"}
	require.NoError(t, repo.Create(ctx, item))
	require.NotEqual(t, uuid.Nil, item.ID)

	item.ItemName = "Widget-2"
	item.CreatorID = "someone-else"
	require.NoError(t, repo.Update(ctx, item))

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget-2", stored.ItemName)
	assert.Equal(t, "u1", stored.CreatorID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = repo.Update(ctx, &models.Item{ID: uuid.New()})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryTxManager_NestedCallsDoNotDeadlock(t *testing.T) {
	tx := NewMemoryTxManager()
	calls := 0

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		calls++
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	userID := uuid.New()
	require.NoError(t, store.Save(ctx, models.Session{ID: "s1", UserID: userID, ExpiresAt: now.Add(time.Hour)}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Hour)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, models.ErrSessionInvalid)
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	require.NoError(t, store.Save(ctx, models.Session{ID: "s1", UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, models.ErrSessionInvalid)
}
