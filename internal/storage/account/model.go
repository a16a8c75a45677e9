package account

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account: not found")

// Account is one aggregator account under a linked item. PlaidAccountID is
// aggregator-assigned and stable across syncs; transactions reference it.
type Account struct {
	ID               uuid.UUID           `db:"id"`
	PlaidAccountID   string              `db:"plaid_account_id"`
	ItemID           uuid.UUID           `db:"item_id"`
	Name             string              `db:"name"`
	OfficialName     sql.NullString      `db:"official_name"`
	Mask             sql.NullString      `db:"mask"`
	Type             string              `db:"type"`
	SubType          string              `db:"sub_type"`
	AvailableBalance decimal.NullDecimal `db:"available_balance"`
	CurrentBalance   decimal.NullDecimal `db:"current_balance"`
	CurrencyCode     sql.NullString      `db:"currency_code"`
	BalanceAsOf      time.Time           `db:"balance_as_of"`
}

// AccountUpsert is the input for storing an aggregator account snapshot.
type AccountUpsert struct {
	PlaidAccountID   string
	ItemID           uuid.UUID
	Name             string
	OfficialName     sql.NullString
	Mask             sql.NullString
	Type             string
	SubType          string
	AvailableBalance decimal.NullDecimal
	CurrentBalance   decimal.NullDecimal
	CurrencyCode     sql.NullString
	BalanceAsOf      time.Time
}

const table = "accounts"

var columns = []string{
	"id",
	"plaid_account_id",
	"item_id",
	"name",
	"official_name",
	"mask",
	"type",
	"sub_type",
	"available_balance",
	"current_balance",
	"currency_code",
	"balance_as_of",
}
