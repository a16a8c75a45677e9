package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage"
	"github.com/carson-networks/link-server/internal/storage/item"
)

// MarkItemStatus transitions an item's lifecycle status, e.g. to
// login_required when the aggregator reports the credential expired.
type MarkItemStatus struct {
	ItemID uuid.UUID
	Status item.ItemStatus

	IAction
}

func (a *MarkItemStatus) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Item.UpdateStatus(ctx, a.ItemID, a.Status)
}
