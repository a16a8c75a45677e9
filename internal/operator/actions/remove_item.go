package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage"
)

// RemoveItem deletes a linked item after the user unlinks it. Accounts and
// transactions cascade at the schema level. The upstream invalidation of
// the access token happens before this action is queued.
type RemoveItem struct {
	ItemID uuid.UUID

	IAction
}

func (a *RemoveItem) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Item.Remove(ctx, a.ItemID)
}
