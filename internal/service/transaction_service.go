package service

import (
	"context"
	"time"

	"github.com/carson-networks/link-server/internal/storage/transaction"
)

const defaultLimit = 20

// transactionReader is the storage surface TransactionService needs.
type transactionReader interface {
	ListForUser(ctx context.Context, userID string, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error)
}

// TransactionService handles transaction read logic.
type TransactionService struct {
	transactions transactionReader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactions transactionReader) *TransactionService {
	return &TransactionService{transactions: transactions}
}

// ListTransactions returns a page of the user's synced transactions using
// cursor-based pagination, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, accountID string, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	var maxDate *time.Time
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
		if !cursor.MaxDate.IsZero() {
			maxDate = &cursor.MaxDate
		}
	}

	filter := &transaction.TransactionFilter{
		Limit:   limit,
		Offset:  offset,
		MaxDate: maxDate,
	}
	if accountID != "" {
		filter.PlaidAccountID = &accountID
	}

	rows, err := s.transactions.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxDate := rows[0].Date
		if maxDate != nil {
			cursorMaxDate = *maxDate
		}

		nextCursor = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
			MaxDate:  cursorMaxDate,
		}
	}

	converted := make([]Transaction, len(rows))
	for i, row := range rows {
		converted[i] = transactionFromStorage(row)
	}

	return converted, nextCursor, nil
}
