package account

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/link-server/internal/plaid"
)

// FromAggregator maps aggregator account payloads onto storage upserts.
// ItemID is left for the action to fill in once the item row is known.
func FromAggregator(accounts []plaid.Account, asOf time.Time) []*AccountUpsert {
	upserts := make([]*AccountUpsert, len(accounts))
	for i, acct := range accounts {
		upserts[i] = &AccountUpsert{
			PlaidAccountID:   acct.AccountID,
			Name:             acct.Name,
			OfficialName:     nullString(acct.OfficialName),
			Mask:             nullString(acct.Mask),
			Type:             acct.Type,
			SubType:          acct.Subtype,
			AvailableBalance: nullDecimal(acct.Balances.Available),
			CurrentBalance:   nullDecimal(acct.Balances.Current),
			CurrencyCode:     nullString(acct.Balances.ISOCurrencyCode),
			BalanceAsOf:      asOf,
		}
	}
	return upserts
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
