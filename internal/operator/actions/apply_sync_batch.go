package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage"
	"github.com/carson-networks/link-server/internal/storage/transaction"
)

// ApplySyncBatch commits one page of the incremental sync protocol. The
// cursor update is the last statement of the transaction, so the cursor can
// never be observed ahead of its batch: a crash mid-cycle leaves the cursor
// at the previous page and the next cycle re-fetches this one. Replays are
// harmless because records upsert and delete by plaid_transaction_id.
type ApplySyncBatch struct {
	ItemID     uuid.UUID
	Added      []*transaction.TransactionUpsert
	Modified   []*transaction.TransactionUpsert
	RemovedIDs []string
	NextCursor string

	IAction
}

func (a *ApplySyncBatch) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := writer.Transaction.Upsert(ctx, a.Added); err != nil {
		return err
	}
	if err := writer.Transaction.Upsert(ctx, a.Modified); err != nil {
		return err
	}
	if err := writer.Transaction.Delete(ctx, a.RemovedIDs); err != nil {
		return err
	}
	return writer.Item.UpdateCursor(ctx, a.ItemID, a.NextCursor)
}
