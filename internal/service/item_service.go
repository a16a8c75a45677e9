package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage/item"
)

// itemReader is the storage surface ItemService needs.
type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
	ListForUser(ctx context.Context, userID string) ([]*item.Item, error)
}

// ItemService handles linked-item read logic.
type ItemService struct {
	items itemReader
}

// NewItemService creates a new ItemService.
func NewItemService(items itemReader) *ItemService {
	return &ItemService{items: items}
}

// GetItem retrieves one item view by ID.
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	row, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	converted := itemFromStorage(row)
	return &converted, nil
}

// ListItems returns every institution connection the user has linked.
func (s *ItemService) ListItems(ctx context.Context, userID string) ([]Item, error) {
	rows, err := s.items.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	converted := make([]Item, len(rows))
	for i, row := range rows {
		converted[i] = itemFromStorage(row)
	}
	return converted, nil
}
