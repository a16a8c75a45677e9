package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/link-server/internal/storage/account"
	"github.com/carson-networks/link-server/internal/storage/item"
	"github.com/carson-networks/link-server/internal/storage/transaction"
)

type Reader struct {
	Items        *item.Reader
	Accounts     *account.Reader
	Transactions *transaction.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Items:        item.NewReader(exec),
		Accounts:     account.NewReader(exec),
		Transactions: transaction.NewReader(exec),
	}
}
