package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketplace/logger"
	"marketplace/models"
)

type UserService struct {
	users  models.UserStore
	items  models.ItemStore
	tx     models.TxManager
	logger *logger.Logger
	now    func() time.Time
}

func NewUserService(users models.UserStore, items models.ItemStore, tx models.TxManager, log *logger.Logger) *UserService {
	return &UserService{
		users:  users,
		items:  items,
		tx:     tx,
		logger: log,
		now:    time.Now,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Dashboard is what a dashboard page shows: the owner's name and one list.
type Dashboard struct {
	Name  string
	Items []models.ItemSnapshot
}

// SellerDashboard lists the items the seller has put up.
func (s *UserService) SellerDashboard(ctx context.Context, id uuid.UUID) (*Dashboard, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Name: user.Name, Items: user.CartItems}, nil
}

// CustomerDashboard lists the customer's purchase history.
func (s *UserService) CustomerDashboard(ctx context.Context, id uuid.UUID) (*Dashboard, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Name: user.Name, Items: user.History}, nil
}

// Cart returns the user's cart snapshots in insertion order.
func (s *UserService) Cart(ctx context.Context, id uuid.UUID) ([]models.ItemSnapshot, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.CartItems, nil
}

// ListCustomers returns every customer account. It is not scoped to a seller.
func (s *UserService) ListCustomers(ctx context.Context) ([]models.User, error) {
	return s.users.FindByCategory(ctx, models.CategoryCustomer)
}

func (s *UserService) AddToCart(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.users.PushCartItem(ctx, userID, item.Snapshot(s.now())); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (s *UserService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.users.PullCartItem(ctx, userID, itemID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// Checkout moves the whole cart into history. No payment or stock handling.
func (s *UserService) Checkout(ctx context.Context, userID uuid.UUID) (int, error) {
	var moved int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		moved, err = s.users.MoveCartToHistory(ctx, userID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("checkout: %w", err)
	}

	s.logger.Info("checkout completed", "user_id", userID, "items", moved)
	return moved, nil
}
