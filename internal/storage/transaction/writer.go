package transaction

import (
	"context"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
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

// Upsert stores a batch of synced records. Added and modified records go
// through the same path: insert, or overwrite in place when the
// plaid_transaction_id already exists.
func (w *Writer) Upsert(ctx context.Context, upserts []*TransactionUpsert) error {
	if len(upserts) == 0 {
		return nil
	}

	now := time.Now().UTC()

	mods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(table,
			"plaid_transaction_id", "plaid_account_id", "amount", "currency_code",
			"name", "date", "category", "category_id", "pending", "last_modified",
		),
	}

	for _, upsert := range upserts {
		mods = append(mods, im.Values(psql.Arg(
			upsert.PlaidTransactionID, upsert.PlaidAccountID, upsert.Amount,
			upsert.CurrencyCode, upsert.Name, upsert.Date, upsert.Category,
			upsert.CategoryID, upsert.Pending, now,
		)))
	}

	mods = append(mods, im.OnConflict("plaid_transaction_id").DoUpdate(
		im.SetExcluded("plaid_account_id"),
		im.SetExcluded("amount"),
		im.SetExcluded("currency_code"),
		im.SetExcluded("name"),
		im.SetExcluded("date"),
		im.SetExcluded("category"),
		im.SetExcluded("category_id"),
		im.SetExcluded("pending"),
		im.SetExcluded("last_modified"),
	))

	_, err := bob.Exec(ctx, w.tx, psql.Insert(mods...))
	return err
}

// Delete removes records the aggregator reported as removed. Unknown IDs
// are ignored so a replayed batch stays a no-op.
func (w *Writer) Delete(ctx context.Context, plaidTransactionIDs []string) error {
	if len(plaidTransactionIDs) == 0 {
		return nil
	}

	args := make([]any, len(plaidTransactionIDs))
	for i, id := range plaidTransactionIDs {
		args[i] = id
	}

	query := psql.Delete(
		dm.From(table),
		dm.Where(psql.Quote("plaid_transaction_id").In(psql.Arg(args...))),
	)
	_, err := bob.Exec(ctx, w.tx, query)
	return err
}
