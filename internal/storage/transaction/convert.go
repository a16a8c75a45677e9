package transaction

import (
	"database/sql"
	"strings"
	"time"

	"github.com/carson-networks/link-server/internal/plaid"
)

const dateLayout = "2006-01-02"

// FromAggregator maps aggregator transaction payloads onto storage upserts.
// Records with an unparseable posted date are skipped rather than failing
// the whole batch.
func FromAggregator(records []plaid.Transaction) []*TransactionUpsert {
	upserts := make([]*TransactionUpsert, 0, len(records))
	for _, record := range records {
		date, err := time.Parse(dateLayout, record.Date)
		if err != nil {
			continue
		}

		category := sql.NullString{}
		if len(record.Category) > 0 {
			category = sql.NullString{String: strings.Join(record.Category, " > "), Valid: true}
		}

		categoryID := sql.NullString{}
		if record.CategoryID != nil {
			categoryID = sql.NullString{String: *record.CategoryID, Valid: true}
		}

		currency := sql.NullString{}
		if record.ISOCurrencyCode != nil {
			currency = sql.NullString{String: *record.ISOCurrencyCode, Valid: true}
		}

		upserts = append(upserts, &TransactionUpsert{
			PlaidTransactionID: record.TransactionID,
			PlaidAccountID:     record.AccountID,
			Amount:             record.Amount,
			CurrencyCode:       currency,
			Name:               record.Name,
			Date:               date,
			Category:           category,
			CategoryID:         categoryID,
			Pending:            record.Pending,
		})
	}
	return upserts
}
