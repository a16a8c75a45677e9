package item

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
		cols[i] = col
	}
	return sm.Columns(cols...)
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := psql.Select(
		selectColumns(),
		sm.From(table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[Item]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindForUser looks up the item for a (user, institution) pair. At most one
// exists; repeat link sessions replace it.
func (r *Reader) FindForUser(ctx context.Context, userID, institutionID string) (*Item, error) {
	query := psql.Select(
		selectColumns(),
		sm.From(table),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.Where(psql.Quote("institution_id").EQ(psql.Arg(institutionID))),
	)

	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[Item]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *Reader) ListForUser(ctx context.Context, userID string) ([]*Item, error) {
	query := psql.Select(
		selectColumns(),
		sm.From(table),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.OrderBy("created_at").Asc(),
	)

	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[Item]())
	if err != nil {
		return nil, err
	}

	result := make([]*Item, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
