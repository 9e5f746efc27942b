package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategorySeller   Category = "Seller"
	CategoryCustomer Category = "Customer"
)

func (c Category) Valid() bool {
	return c == CategorySeller || c == CategoryCustomer
}

// UserStore persists user records together with their embedded cart and history.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindOrCreateByGoogleID(ctx context.Context, googleID string) (*User, bool, error)
	FindByCategory(ctx context.Context, category Category) ([]User, error)
	SetProfile(ctx context.Context, id uuid.UUID, name string, category Category) error

	PushCartItem(ctx context.Context, userID uuid.UUID, item ItemSnapshot) error
	PullCartItem(ctx context.Context, userID, itemID uuid.UUID) error
	ReplaceCartItem(ctx context.Context, userID uuid.UUID, item ItemSnapshot) error
	MoveCartToHistory(ctx context.Context, userID uuid.UUID) (int, error)
}

type User struct {
	ID        uuid.UUID      `json:"id"`
	Username  string         `json:"username"`
	Name      string         `json:"name"`
	Category  Category       `json:"category"`
	Email     string         `json:"email"`
	Password  string         `json:"-"`
	GoogleID  string         `json:"-"`
	History   []ItemSnapshot `json:"history"`
	CartItems []ItemSnapshot `json:"cart_items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LandingPath is where the user goes right after authenticating.
func (u *User) LandingPath() string {
	switch u.Category {
	case CategorySeller:
		return "/" + u.ID.String() + "/sellerDash"
	case CategoryCustomer:
		return "/" + u.ID.String() + "/custDash"
	default:
		return "/" + u.ID.String() + "/profile"
	}
}
