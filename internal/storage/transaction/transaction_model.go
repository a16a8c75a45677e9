package transaction

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one aggregator transaction. PlaidTransactionID is unique
// and stable across sync cycles; modified records overwrite by it and
// removed records delete by it, so a replayed batch is a no-op.
type Transaction struct {
	PlaidTransactionID string          `db:"plaid_transaction_id"`
	PlaidAccountID     string          `db:"plaid_account_id"`
	Amount             decimal.Decimal `db:"amount"`
	CurrencyCode       sql.NullString  `db:"currency_code"`
	Name               string          `db:"name"`
	Date               time.Time       `db:"date"`
	Category           sql.NullString  `db:"category"`
	CategoryID         sql.NullString  `db:"category_id"`
	Pending            bool            `db:"pending"`
	LastModified       time.Time       `db:"last_modified"`
}

// TransactionUpsert is the input for storing one synced transaction record.
type TransactionUpsert struct {
	PlaidTransactionID string
	PlaidAccountID     string
	Amount             decimal.Decimal
	CurrencyCode       sql.NullString
	Name               string
	Date               time.Time
	Category           sql.NullString
	CategoryID         sql.NullString
	Pending            bool
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	PlaidAccountID *string
	Limit          int
	Offset         int
	MaxDate        *time.Time
}

const table = "transactions"

var columns = []string{
	"plaid_transaction_id",
	"plaid_account_id",
	"amount",
	"currency_code",
	"name",
	"date",
	"category",
	"category_id",
	"pending",
	"last_modified",
}
