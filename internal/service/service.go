package service

import (
	"github.com/carson-networks/link-server/internal/storage"
)

// Service holds the read-side services handlers consume. All mutation flows
// through the operator; these only ever see the storage Reader.
type Service struct {
	Item        *ItemService
	Account     *AccountService
	Transaction *TransactionService
}

// NewService creates a new Service over the given storage.
func NewService(store *storage.Storage) *Service {
	return &Service{
		Item:        NewItemService(store.Reader.Items),
		Account:     NewAccountService(store.Reader.Accounts),
		Transaction: NewTransactionService(store.Reader.Transactions),
	}
}
