package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketplace/logger"
	"marketplace/models"
)

type CatalogService struct {
	items  models.ItemStore
	users  models.UserStore
	tx     models.TxManager
	logger *logger.Logger
	now    func() time.Time
}

func NewCatalogService(items models.ItemStore, users models.UserStore, tx models.TxManager, log *logger.Logger) *CatalogService {
	return &CatalogService{
		items:  items,
		users:  users,
		tx:     tx,
		logger: log,
		now:    time.Now,
	}
}

// ListCatalog returns every item, oldest first.
func (s *CatalogService) ListCatalog(ctx context.Context) ([]models.Item, error) {
	return s.items.FindAll(ctx)
}

func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return s.items.FindByID(ctx, id)
}

// CreateItem stores a new item owned by ownerID and appends its snapshot to
// the owner's cart, both in one transaction.
func (s *CatalogService) CreateItem(ctx context.Context, ownerID uuid.UUID, req models.CreateItemRequest, image *models.ImageUpload) (*models.Item, error) {
	item := &models.Item{
		ItemName:     strings.TrimSpace(req.ItemName),
		Description:  strings.TrimSpace(req.Description),
		Price:        req.Price,
		Quantity:     req.Quantity,
		ItemCategory: strings.TrimSpace(req.ItemCategory),
		CreatorID:    ownerID.String(),
	}
	if image != nil && len(image.Data) > 0 {
		item.Image = image.Data
		item.ImageContentType = image.ContentType
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, ownerID); err != nil {
			return err
		}
		if err := s.items.Create(ctx, item); err != nil {
			return err
		}
		return s.users.PushCartItem(ctx, ownerID, item.Snapshot(s.now()))
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info("item created", "item_id", item.ID, "creator_id", item.CreatorID)
	return item, nil
}

// UpdateItem edits the item in place. Only its creator may do so. The
// creator's cart snapshot is refreshed in the same transaction; snapshots
// held by other users are left as they were.
func (s *CatalogService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, req models.UpdateItemRequest) (*models.Item, error) {
	var item *models.Item

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if current.CreatorID != ownerID.String() {
			return models.ErrForbidden
		}

		applyUpdate(current, req)
		if err := s.items.Update(ctx, current); err != nil {
			return err
		}
		if err := s.users.ReplaceCartItem(ctx, ownerID, current.Snapshot(s.now())); err != nil {
			return err
		}

		item = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.logger.Info("item updated", "item_id", item.ID, "creator_id", item.CreatorID)
	return item, nil
}

func applyUpdate(item *models.Item, req models.UpdateItemRequest) {
	if v := strings.TrimSpace(req.ItemName); v != "" {
		item.ItemName = v
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		item.Description = v
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if v := strings.TrimSpace(req.ItemCategory); v != "" {
		item.ItemCategory = v
	}
}
