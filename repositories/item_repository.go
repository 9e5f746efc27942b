package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/models"
)

const itemColumns = `id, item_name, description, COALESCE(image, ''::bytea), image_content_type,
	price, quantity, item_category, creator_id, created_at, updated_at`

var _ models.ItemStore = (*ItemRepository)(nil)

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.ItemName,
		&item.Description,
		&item.Image,
		&item.ImageContentType,
		&item.Price,
		&item.Quantity,
		&item.ItemCategory,
		&item.CreatorID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO items (id, item_name, description, image, image_content_type, price, quantity,
			item_category, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING created_at, updated_at
	`

	var image []byte
	if item.HasImage() {
		image = item.Image
	}

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		item.ID,
		item.ItemName,
		item.Description,
		image,
		item.ImageContentType,
		item.Price,
		item.Quantity,
		item.ItemCategory,
		item.CreatorID,
		time.Now(),
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by id: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at, id`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// Update rewrites the mutable fields in place. The image and creator are kept.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET item_name = $2, description = $3, price = $4, quantity = $5, item_category = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		item.ID,
		item.ItemName,
		item.Description,
		item.Price,
		item.Quantity,
		item.ItemCategory,
		time.Now(),
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}
