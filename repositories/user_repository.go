package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/models"
)

const uniqueViolation = "23505"

const userColumns = `id, COALESCE(username, ''), name, category, email, password,
	COALESCE(google_id, ''), history, cart_items, created_at, updated_at`

var _ models.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user      models.User
		category  string
		history   []byte
		cartItems []byte
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&category,
		&user.Email,
		&user.Password,
		&user.GoogleID,
		&history,
		&cartItems,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Category = models.Category(category)

	if err := json.Unmarshal(history, &user.History); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if err := json.Unmarshal(cartItems, &user.CartItems); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	if user.History == nil {
		user.History = []models.ItemSnapshot{}
	}
	if user.CartItems == nil {
		user.CartItems = []models.ItemSnapshot{}
	}

	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, username, name, category, email, password, google_id, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NULLIF($7, ''), $8, $8)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		string(user.Category),
		user.Email,
		user.Password,
		user.GoogleID,
		time.Now(),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.History = []models.ItemSnapshot{}
	user.CartItems = []models.ItemSnapshot{}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// FindOrCreateByGoogleID reports created=true only when this call inserted the row.
func (r *UserRepository) FindOrCreateByGoogleID(ctx context.Context, googleID string) (*models.User, bool, error) {
	insert := `
		INSERT INTO users (id, google_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (google_id) DO NOTHING
		RETURNING ` + userColumns

	db := conn(ctx, r.pool)

	user, err := scanUser(db.QueryRow(ctx, insert, uuid.New(), googleID, time.Now()))
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create federated user: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	user, err = scanUser(db.QueryRow(ctx, query, googleID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user by google id: %w", err)
	}
	return user, false, nil
}

func (r *UserRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE category = $1 ORDER BY created_at, id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// SetProfile only succeeds while the category is still unset.
func (r *UserRepository) SetProfile(ctx context.Context, id uuid.UUID, name string, category models.Category) error {
	query := `UPDATE users SET name = $2, category = $3, updated_at = $4 WHERE id = $1 AND category = ''`

	db := conn(ctx, r.pool)
	tag, err := db.Exec(ctx, query, id, name, string(category), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return models.ErrCategoryAlreadySet
}

func (r *UserRepository) PushCartItem(ctx context.Context, userID uuid.UUID, item models.ItemSnapshot) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode cart item: %w", err)
	}

	query := `
		UPDATE users
		SET cart_items = cart_items || jsonb_build_array($2::jsonb), updated_at = $3
		WHERE id = $1
	`
	return r.execOnUser(ctx, "push cart item", query, userID, string(payload), time.Now())
}

func (r *UserRepository) PullCartItem(ctx context.Context, userID, itemID uuid.UUID) error {
	query := `
		UPDATE users
		SET cart_items = COALESCE((
				SELECT jsonb_agg(e ORDER BY ord)
				FROM jsonb_array_elements(cart_items) WITH ORDINALITY AS t(e, ord)
				WHERE e->>'id' <> $2::text
			), '[]'::jsonb),
			updated_at = $3
		WHERE id = $1
	`
	return r.execOnUser(ctx, "pull cart item", query, userID, itemID.String(), time.Now())
}

// ReplaceCartItem swaps every snapshot carrying item.ID for item, keeping positions.
func (r *UserRepository) ReplaceCartItem(ctx context.Context, userID uuid.UUID, item models.ItemSnapshot) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode cart item: %w", err)
	}

	query := `
		UPDATE users
		SET cart_items = COALESCE((
				SELECT jsonb_agg(CASE WHEN e->>'id' = $2::text THEN $3::jsonb ELSE e END ORDER BY ord)
				FROM jsonb_array_elements(cart_items) WITH ORDINALITY AS t(e, ord)
			), '[]'::jsonb),
			updated_at = $4
		WHERE id = $1
	`
	return r.execOnUser(ctx, "replace cart item", query, userID, item.ID.String(), string(payload), time.Now())
}

func (r *UserRepository) MoveCartToHistory(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		UPDATE users u
		SET history = u.history || o.cart_items, cart_items = '[]'::jsonb, updated_at = $2
		FROM (SELECT id, cart_items FROM users WHERE id = $1 FOR UPDATE) o
		WHERE u.id = o.id
		RETURNING jsonb_array_length(o.cart_items)
	`

	var moved int
	err := conn(ctx, r.pool).QueryRow(ctx, query, userID, time.Now()).Scan(&moved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("failed to move cart to history: %w", err)
	}
	return moved, nil
}

func (r *UserRepository) execOnUser(ctx context.Context, op, query string, args ...any) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
