package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage/item"
)

// Item is the service-layer view of a linked institution connection. It
// carries no access token and no cursor; those never leave the sync side.
type Item struct {
	ID              uuid.UUID
	UserID          string
	InstitutionID   string
	InstitutionName string
	Status          string
	HasSynced       bool
	CreatedAt       time.Time
}

func itemFromStorage(row *item.Item) Item {
	return Item{
		ID:              row.ID,
		UserID:          row.UserID,
		InstitutionID:   row.InstitutionID,
		InstitutionName: row.InstitutionName,
		Status:          string(row.Status),
		HasSynced:       row.Cursor.Valid,
		CreatedAt:       row.CreatedAt,
	}
}
