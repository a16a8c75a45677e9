package item

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
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

// Upsert persists a completed link session. The (user_id, institution_id)
// unique constraint makes a repeat link for the same institution replace
// the stored credential; the cursor resets to NULL so the next sync cycle
// re-fetches full history for the fresh token.
func (w *Writer) Upsert(ctx context.Context, create *ItemCreate) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	query := psql.Insert(
		im.Into(table,
			"id", "user_id", "plaid_item_id", "access_token",
			"institution_id", "institution_name", "cursor", "status", "created_at",
		),
		im.Values(psql.Arg(
			id, create.UserID, create.PlaidItemID, create.AccessToken,
			create.InstitutionID, create.InstitutionName, nil, string(StatusActive), time.Now().UTC(),
		)),
		im.OnConflict("user_id", "institution_id").DoUpdate(
			im.SetExcluded("plaid_item_id"),
			im.SetExcluded("access_token"),
			im.SetExcluded("institution_name"),
			im.SetExcluded("cursor"),
			im.SetExcluded("status"),
		),
		im.Returning("id"),
	)

	return bob.One(ctx, w.tx, query, scan.SingleColumnMapper[uuid.UUID])
}

func (w *Writer) UpdateStatus(ctx context.Context, id uuid.UUID, status ItemStatus) error {
	query := psql.Update(
		um.Table(table),
		um.SetCol("status").ToArg(string(status)),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, query)
	return err
}

// UpdateCursor advances the sync cursor. Always the final statement of the
// transaction that committed the matching batch; see actions.ApplySyncBatch.
func (w *Writer) UpdateCursor(ctx context.Context, id uuid.UUID, cursor string) error {
	query := psql.Update(
		um.Table(table),
		um.SetCol("cursor").ToArg(cursor),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, query)
	return err
}

// Remove deletes the item row. Accounts and transactions cascade via
// foreign keys (see migrations).
func (w *Writer) Remove(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(table),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, query)
	return err
}
