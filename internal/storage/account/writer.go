package account

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Upsert stores a batch of account snapshots, replacing balances for rows
// whose plaid_account_id already exists.
func (w *Writer) Upsert(ctx context.Context, upserts []*AccountUpsert) error {
	if len(upserts) == 0 {
		return nil
	}

	mods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(table,
			"id", "plaid_account_id", "item_id", "name", "official_name", "mask",
			"type", "sub_type", "available_balance", "current_balance",
			"currency_code", "balance_as_of",
		),
	}

	for _, upsert := range upserts {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		mods = append(mods, im.Values(psql.Arg(
			id, upsert.PlaidAccountID, upsert.ItemID, upsert.Name,
			upsert.OfficialName, upsert.Mask, upsert.Type, upsert.SubType,
			upsert.AvailableBalance, upsert.CurrentBalance,
			upsert.CurrencyCode, upsert.BalanceAsOf,
		)))
	}

	mods = append(mods, im.OnConflict("plaid_account_id").DoUpdate(
		im.SetExcluded("name"),
		im.SetExcluded("official_name"),
		im.SetExcluded("mask"),
		im.SetExcluded("type"),
		im.SetExcluded("sub_type"),
		im.SetExcluded("available_balance"),
		im.SetExcluded("current_balance"),
		im.SetExcluded("currency_code"),
		im.SetExcluded("balance_as_of"),
	))

	_, err := bob.Exec(ctx, w.tx, psql.Insert(mods...))
	return err
}
