package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage"
	"github.com/carson-networks/link-server/internal/storage/account"
	"github.com/carson-networks/link-server/internal/storage/item"
)

// SaveItem persists the result of a completed link session: the item
// credential plus the initial account snapshots, in one transaction. The
// upsert keyed on (user, institution) makes a repeat link replace rather
// than duplicate the stored item.
type SaveItem struct {
	UserID          string
	PlaidItemID     string
	AccessToken     string
	InstitutionID   string
	InstitutionName string
	Accounts        []*account.AccountUpsert

	// ItemID is set on success to the stored item row.
	ItemID uuid.UUID

	IAction
}

func (a *SaveItem) Perform(ctx context.Context, writer *storage.Writer) error {
	itemID, err := writer.Item.Upsert(ctx, &item.ItemCreate{
		UserID:          a.UserID,
		PlaidItemID:     a.PlaidItemID,
		AccessToken:     a.AccessToken,
		InstitutionID:   a.InstitutionID,
		InstitutionName: a.InstitutionName,
	})
	if err != nil {
		return err
	}

	for _, upsert := range a.Accounts {
		upsert.ItemID = itemID
	}
	if err := writer.Account.Upsert(ctx, a.Accounts); err != nil {
		return err
	}

	a.ItemID = itemID
	return nil
}
