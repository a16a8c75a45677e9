package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage"
	"github.com/carson-networks/link-server/internal/storage/account"
)

// UpsertAccounts refreshes stored account snapshots, used after a balance
// fetch or at the end of a sync cycle.
type UpsertAccounts struct {
	ItemID   uuid.UUID
	Accounts []*account.AccountUpsert

	IAction
}

func (a *UpsertAccounts) Perform(ctx context.Context, writer *storage.Writer) error {
	for _, upsert := range a.Accounts {
		upsert.ItemID = a.ItemID
	}
	return writer.Account.Upsert(ctx, a.Accounts)
}
