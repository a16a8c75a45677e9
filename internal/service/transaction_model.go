package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/link-server/internal/storage/transaction"
)

// Transaction represents a synced transaction in the service layer.
type Transaction struct {
	ID           string
	AccountID    string
	Amount       decimal.Decimal
	CurrencyCode string
	Name         string
	Date         time.Time
	Category     string
	Pending      bool
}

// TransactionCursor identifies a position in a paginated result set and
// carries the limit and maxDate so subsequent pages are consistent while
// new syncs land.
type TransactionCursor struct {
	Position int
	Limit    int
	MaxDate  time.Time
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:           row.PlaidTransactionID,
		AccountID:    row.PlaidAccountID,
		Amount:       row.Amount,
		CurrencyCode: row.CurrencyCode.String,
		Name:         row.Name,
		Date:         row.Date,
		Category:     row.Category.String,
		Pending:      row.Pending,
	}
}
