package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/link-server/internal/storage/account"
	"github.com/carson-networks/link-server/internal/storage/item"
	"github.com/carson-networks/link-server/internal/storage/transaction"
)

type Writer struct {
	tx          bob.Tx
	Item        *item.Writer
	Account     *account.Writer
	Transaction *transaction.Writer
}

func NewWriter(tx bob.Tx) Writer {
	return Writer{
		tx:          tx,
		Item:        item.NewWriter(tx),
		Account:     account.NewWriter(tx),
		Transaction: transaction.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
