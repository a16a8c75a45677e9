package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func selectColumns() bob.Mod[*dialect.SelectQuery] {
	cols := make([]any, len(columns))
	for i, col := range columns {
		cols[i] = psql.Quote(table, col)
	}
	return sm.Columns(cols...)
}

func (r *Reader) FindByPlaidID(ctx context.Context, plaidAccountID string) (*Account, error) {
	query := psql.Select(
		selectColumns(),
		sm.From(table),
		sm.Where(psql.Quote(table, "plaid_account_id").EQ(psql.Arg(plaidAccountID))),
	)

	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[Account]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *Reader) ListForItem(ctx context.Context, itemID uuid.UUID) ([]*Account, error) {
	query := psql.Select(
		selectColumns(),
		sm.From(table),
		sm.Where(psql.Quote(table, "item_id").EQ(psql.Arg(itemID))),
		sm.OrderBy("name").Asc(),
	)

	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[Account]())
	if err != nil {
		return nil, err
	}

	result := make([]*Account, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// ListForUser returns every account under every item the user has linked.
func (r *Reader) ListForUser(ctx context.Context, userID string) ([]*Account, error) {
	query := psql.Select(
		selectColumns(),
		sm.From(table),
		sm.InnerJoin("items").On(
			psql.Quote(table, "item_id").EQ(psql.Quote("items", "id")),
		),
		sm.Where(psql.Quote("items", "user_id").EQ(psql.Arg(userID))),
		sm.OrderBy(psql.Quote(table, "name")).Asc(),
	)

	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[Account]())
	if err != nil {
		return nil, err
	}

	result := make([]*Account, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
