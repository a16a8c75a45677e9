package plaid

import (
	"github.com/shopspring/decimal"
)

// User identifies the end user to the aggregator when creating link tokens.
type User struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateRequest struct {
	ClientName   string   `json:"client_name"`
	Language     string   `json:"language"`
	CountryCodes []string `json:"country_codes"`
	Products     []string `json:"products"`
	AccessToken  string   `json:"access_token,omitempty"`
	User         User     `json:"user"`
}

// LinkToken is an ephemeral token the linking widget consumes. Expiration
// is RFC3339 as issued by the aggregator.
type LinkToken struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

type publicTokenExchangeRequest struct {
	PublicToken string `json:"public_token"`
}

// PublicTokenExchange is the durable credential produced by a completed
// link session. AccessToken is secret material and must never reach a
// handler response.
type PublicTokenExchange struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type itemRemoveRequest struct {
	AccessToken string `json:"access_token"`
}

// Balances is the aggregator's balance snapshot for one account.
type Balances struct {
	Available              *decimal.Decimal `json:"available"`
	Current                *decimal.Decimal `json:"current"`
	Limit                  *decimal.Decimal `json:"limit"`
	ISOCurrencyCode        *string          `json:"iso_currency_code"`
	UnofficialCurrencyCode *string          `json:"unofficial_currency_code"`
	LastUpdatedDatetime    *string          `json:"last_updated_datetime"`
}

// Account is an aggregator account as returned by /accounts/get and
// /accounts/balance/get.
type Account struct {
	AccountID    string   `json:"account_id"`
	Balances     Balances `json:"balances"`
	Mask         *string  `json:"mask"`
	Name         string   `json:"name"`
	OfficialName *string  `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
}

// Item is the aggregator's view of one institution connection.
type Item struct {
	ItemID        string  `json:"item_id"`
	InstitutionID *string `json:"institution_id"`
}

type accountsGetOptions struct {
	AccountIDs []string `json:"account_ids,omitempty"`
}

type accountsGetRequest struct {
	AccessToken string              `json:"access_token"`
	Options     *accountsGetOptions `json:"options,omitempty"`
}

// AccountsResponse pairs a list of accounts with the item they belong to.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
	Item     Item      `json:"item"`
}

type balanceGetOptions struct {
	AccountIDs             []string `json:"account_ids,omitempty"`
	MinLastUpdatedDatetime string   `json:"min_last_updated_datetime,omitempty"`
}

type balanceGetRequest struct {
	AccessToken string             `json:"access_token"`
	Options     *balanceGetOptions `json:"options,omitempty"`
}

type institutionGetRequest struct {
	InstitutionID string                 `json:"institution_id"`
	CountryCodes  []string               `json:"country_codes"`
	Options       *institutionGetOptions `json:"options,omitempty"`
}

type institutionGetOptions struct {
	IncludeOptionalMetadata bool `json:"include_optional_metadata"`
}

// Institution is aggregator institution metadata.
type Institution struct {
	InstitutionID string   `json:"institution_id"`
	Name          string   `json:"name"`
	Products      []string `json:"products,omitempty"`
	CountryCodes  []string `json:"country_codes,omitempty"`
	URL           string   `json:"url,omitempty"`
	PrimaryColor  string   `json:"primary_color,omitempty"`
	Logo          string   `json:"logo,omitempty"`
}

type institutionGetResponse struct {
	Institution Institution `json:"institution"`
}

// Category is one entry of the aggregator's category taxonomy.
type Category struct {
	CategoryID string   `json:"category_id"`
	Group      string   `json:"group"`
	Hierarchy  []string `json:"hierarchy"`
}

type categoriesGetResponse struct {
	Categories []Category `json:"categories"`
}

// Transaction is an aggregator transaction record. Date is the posted date
// in YYYY-MM-DD form; Datetime, when present, carries the exact timestamp.
type Transaction struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	ISOCurrencyCode *string         `json:"iso_currency_code"`
	Name            string          `json:"name"`
	Date            string          `json:"date"`
	Datetime        *string         `json:"datetime"`
	Category        []string        `json:"category"`
	CategoryID      *string         `json:"category_id"`
	Pending         bool            `json:"pending"`
}

type transactionsGetOptions struct {
	AccountIDs []string `json:"account_ids,omitempty"`
	Count      int      `json:"count,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}

type transactionsGetRequest struct {
	AccessToken string                  `json:"access_token"`
	StartDate   string                  `json:"start_date"`
	EndDate     string                  `json:"end_date"`
	Options     *transactionsGetOptions `json:"options,omitempty"`
}

// TransactionsResponse is the legacy ranged fetch result. It is read-only
// and informational; the sync endpoint is the authoritative write path.
type TransactionsResponse struct {
	Accounts          []Account     `json:"accounts"`
	Transactions      []Transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
}

type transactionsSyncRequest struct {
	AccessToken string `json:"access_token"`
	Cursor      string `json:"cursor,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// RemovedTransaction identifies a transaction deleted upstream.
type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// SyncResponse is one page of the incremental sync protocol. NextCursor is
// opaque; callers persist it only after committing the page's records.
type SyncResponse struct {
	Added      []Transaction        `json:"added"`
	Modified   []Transaction        `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
	RequestID  string               `json:"request_id"`
}
