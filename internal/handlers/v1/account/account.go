package account

import (
	"time"
)

// Account is the API response model for an aggregator account.
type Account struct {
	ID               string    `json:"id" doc:"Aggregator account ID"`
	ItemID           string    `json:"itemID" doc:"Owning item UUID"`
	Name             string    `json:"name" doc:"Account name"`
	OfficialName     string    `json:"officialName,omitempty" doc:"Institution's official account name"`
	Mask             string    `json:"mask,omitempty" doc:"Last digits of the account number"`
	Type             string    `json:"type" doc:"Aggregator account type"`
	SubType          string    `json:"subType" doc:"Aggregator account sub-type"`
	AvailableBalance string    `json:"availableBalance,omitempty" doc:"Decimal available balance"`
	CurrentBalance   string    `json:"currentBalance,omitempty" doc:"Decimal current balance"`
	CurrencyCode     string    `json:"currencyCode,omitempty" doc:"ISO currency code"`
	BalanceAsOf      time.Time `json:"balanceAsOf" doc:"When the balance snapshot was taken"`
}
