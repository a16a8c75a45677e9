package transaction

import (
	"context"

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

func filterMods(filter *TransactionFilter) []bob.Mod[*dialect.SelectQuery] {
	limit := 20
	offset := 0
	var queryMods []bob.Mod[*dialect.SelectQuery]

	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
		if filter.PlaidAccountID != nil {
			queryMods = append(queryMods,
				sm.Where(psql.Quote(table, "plaid_account_id").EQ(psql.Arg(*filter.PlaidAccountID))))
		}
		if filter.MaxDate != nil {
			queryMods = append(queryMods,
				sm.Where(psql.Quote(table, "date").LTE(psql.Arg(*filter.MaxDate))))
		}
	}

	// Fetch one extra row so callers can tell whether a next page exists.
	queryMods = append(queryMods,
		sm.Limit(limit+1),
		sm.Offset(offset),
		sm.OrderBy(psql.Quote(table, "date")).Desc(),
		sm.OrderBy(psql.Quote(table, "plaid_transaction_id")).Asc(),
	)
	return queryMods
}

// ListForUser returns transactions across every account the user has
// linked, newest first.
func (r *Reader) ListForUser(ctx context.Context, userID string, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		selectColumns(),
		sm.From(table),
		sm.InnerJoin("accounts").On(
			psql.Quote(table, "plaid_account_id").EQ(psql.Quote("accounts", "plaid_account_id")),
		),
		sm.InnerJoin("items").On(
			psql.Quote("accounts", "item_id").EQ(psql.Quote("items", "id")),
		),
		sm.Where(psql.Quote("items", "user_id").EQ(psql.Arg(userID))),
	}
	queryMods = append(queryMods, filterMods(filter)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}

	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// ListForAccount returns transactions for one aggregator account.
func (r *Reader) ListForAccount(ctx context.Context, plaidAccountID string, filter *TransactionFilter) ([]*Transaction, error) {
	if filter == nil {
		filter = &TransactionFilter{}
	}
	filter.PlaidAccountID = &plaidAccountID

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		selectColumns(),
		sm.From(table),
	}
	queryMods = append(queryMods, filterMods(filter)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}

	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
