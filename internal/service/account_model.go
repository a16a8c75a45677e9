package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/link-server/internal/storage/account"
)

// Account represents an aggregator account in the service layer. The ID is
// the aggregator-assigned account identifier.
type Account struct {
	ID               string
	ItemID           uuid.UUID
	Name             string
	OfficialName     string
	Mask             string
	Type             string
	SubType          string
	AvailableBalance *decimal.Decimal
	CurrentBalance   *decimal.Decimal
	CurrencyCode     string
	BalanceAsOf      time.Time
}

func accountFromStorage(row *account.Account) Account {
	converted := Account{
		ID:           row.PlaidAccountID,
		ItemID:       row.ItemID,
		Name:         row.Name,
		OfficialName: row.OfficialName.String,
		Mask:         row.Mask.String,
		Type:         row.Type,
		SubType:      row.SubType,
		CurrencyCode: row.CurrencyCode.String,
		BalanceAsOf:  row.BalanceAsOf,
	}
	if row.AvailableBalance.Valid {
		available := row.AvailableBalance.Decimal
		converted.AvailableBalance = &available
	}
	if row.CurrentBalance.Valid {
		current := row.CurrentBalance.Decimal
		converted.CurrentBalance = &current
	}
	return converted
}
