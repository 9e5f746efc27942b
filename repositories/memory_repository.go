package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace/models"
)

var (
	_ models.UserStore = (*MemoryUserRepository)(nil)
	_ models.ItemStore = (*MemoryItemRepository)(nil)
	_ models.TxManager = (*MemoryTxManager)(nil)
)

// MemoryUserRepository keeps users in process memory. Used for local runs
// without PostgreSQL and in tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
	order []uuid.UUID
	now   func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[uuid.UUID]*models.User),
		now:   time.Now,
	}
}

func cloneSnapshots(in []models.ItemSnapshot) []models.ItemSnapshot {
	out := make([]models.ItemSnapshot, len(in))
	copy(out, in)
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.History = cloneSnapshots(u.History)
	c.CartItems = cloneSnapshots(u.CartItems)
	return &c
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if user.Username != "" && existing.Username == user.Username {
			return models.ErrDuplicateUsername
		}
		if user.GoogleID != "" && existing.GoogleID == user.GoogleID {
			return models.ErrDuplicateUsername
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.History = []models.ItemSnapshot{}
	user.CartItems = []models.ItemSnapshot{}

	r.users[user.ID] = cloneUser(user)
	r.order = append(r.order, user.ID)
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username != "" && u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryUserRepository) FindOrCreateByGoogleID(ctx context.Context, googleID string) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.GoogleID == googleID {
			return cloneUser(u), false, nil
		}
	}

	now := r.now()
	u := &models.User{
		ID:        uuid.New(),
		GoogleID:  googleID,
		History:   []models.ItemSnapshot{},
		CartItems: []models.ItemSnapshot{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users[u.ID] = u
	r.order = append(r.order, u.ID)
	return cloneUser(u), true, nil
}

func (r *MemoryUserRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []models.User{}
	for _, id := range r.order {
		if u := r.users[id]; u.Category == category {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) SetProfile(ctx context.Context, id uuid.UUID, name string, category models.Category) error {
	return r.mutate(id, func(u *models.User) error {
		if u.Category != "" {
			return models.ErrCategoryAlreadySet
		}
		u.Name = name
		u.Category = category
		return nil
	})
}

func (r *MemoryUserRepository) PushCartItem(ctx context.Context, userID uuid.UUID, item models.ItemSnapshot) error {
	return r.mutate(userID, func(u *models.User) error {
		u.CartItems = append(u.CartItems, item)
		return nil
	})
}

func (r *MemoryUserRepository) PullCartItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return r.mutate(userID, func(u *models.User) error {
		kept := u.CartItems[:0]
		for _, it := range u.CartItems {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		u.CartItems = kept
		return nil
	})
}

func (r *MemoryUserRepository) ReplaceCartItem(ctx context.Context, userID uuid.UUID, item models.ItemSnapshot) error {
	return r.mutate(userID, func(u *models.User) error {
		for i := range u.CartItems {
			if u.CartItems[i].ID == item.ID {
				u.CartItems[i] = item
			}
		}
		return nil
	})
}

func (r *MemoryUserRepository) MoveCartToHistory(ctx context.Context, userID uuid.UUID) (int, error) {
	var moved int
	err := r.mutate(userID, func(u *models.User) error {
		moved = len(u.CartItems)
		u.History = append(u.History, u.CartItems...)
		u.CartItems = []models.ItemSnapshot{}
		return nil
	})
	return moved, err
}

func (r *MemoryUserRepository) mutate(id uuid.UUID, fn func(u *models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	if err := fn(u); err != nil {
		return err
	}
	u.UpdatedAt = r.now()
	return nil
}

type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Item
	order []uuid.UUID
	now   func() time.Time
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{
		items: make(map[uuid.UUID]*models.Item),
		now:   time.Now,
	}
}

func cloneItem(i *models.Item) *models.Item {
	c := *i
	if i.Image != nil {
		c.Image = append([]byte(nil), i.Image...)
	}
	return &c
}

func (r *MemoryItemRepository) Create(ctx context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := r.now()
	item.CreatedAt = now
	item.UpdatedAt = now

	r.items[item.ID] = cloneItem(item)
	r.order = append(r.order, item.ID)
	return nil
}

func (r *MemoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *MemoryItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.Item, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, *cloneItem(r.items[id]))
	}
	return items, nil
}

func (r *MemoryItemRepository) Update(ctx context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.ItemName = item.ItemName
	stored.Description = item.Description
	stored.Price = item.Price
	stored.Quantity = item.Quantity
	stored.ItemCategory = item.ItemCategory
	stored.UpdatedAt = r.now()
	item.UpdatedAt = stored.UpdatedAt
	return nil
}

// MemoryTxManager serializes units of work. It cannot roll back.
type MemoryTxManager struct {
	mu sync.Mutex
}

func NewMemoryTxManager() *MemoryTxManager {
	return &MemoryTxManager{}
}

type memTxKey struct{}

func (m *MemoryTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, memTxKey{}, true))
}
