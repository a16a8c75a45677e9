package account

import (
	"github.com/carson-networks/link-server/internal/service"
)

func fromService(row service.Account) Account {
	converted := Account{
		ID:           row.ID,
		ItemID:       row.ItemID.String(),
		Name:         row.Name,
		OfficialName: row.OfficialName,
		Mask:         row.Mask,
		Type:         row.Type,
		SubType:      row.SubType,
		CurrencyCode: row.CurrencyCode,
		BalanceAsOf:  row.BalanceAsOf,
	}
	if row.AvailableBalance != nil {
		converted.AvailableBalance = row.AvailableBalance.String()
	}
	if row.CurrentBalance != nil {
		converted.CurrentBalance = row.CurrentBalance.String()
	}
	return converted
}
