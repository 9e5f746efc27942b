package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemStore persists catalog items.
type ItemStore interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, item *Item) error
}

type Item struct {
	ID               uuid.UUID `json:"id"`
	ItemName         string    `json:"item_name"`
	Description      string    `json:"description"`
	Image            []byte    `json:"-"`
	ImageContentType string    `json:"-"`
	Price            float64   `json:"price"`
	Quantity         int       `json:"quantity"`
	ItemCategory     string    `json:"item_category"`
	CreatorID        string    `json:"creator_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (i *Item) HasImage() bool {
	return len(i.Image) > 0
}

// Snapshot copies the item by value. Later edits to the item do not reach the copy.
func (i *Item) Snapshot(at time.Time) ItemSnapshot {
	return ItemSnapshot{
		ID:           i.ID,
		ItemName:     i.ItemName,
		Description:  i.Description,
		Price:        i.Price,
		Quantity:     i.Quantity,
		ItemCategory: i.ItemCategory,
		CreatorID:    i.CreatorID,
		AddedAt:      at,
	}
}

// ItemSnapshot is an item embedded into a user's cart or history.
type ItemSnapshot struct {
	ID           uuid.UUID `json:"id"`
	ItemName     string    `json:"item_name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	ItemCategory string    `json:"item_category"`
	CreatorID    string    `json:"creator_id"`
	AddedAt      time.Time `json:"added_at"`
}
