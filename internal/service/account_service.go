package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/storage/account"
)

// accountReader is the storage surface AccountService needs.
type accountReader interface {
	ListForUser(ctx context.Context, userID string) ([]*account.Account, error)
	ListForItem(ctx context.Context, itemID uuid.UUID) ([]*account.Account, error)
}

// AccountService handles account read logic.
type AccountService struct {
	accounts accountReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts accountReader) *AccountService {
	return &AccountService{accounts: accounts}
}

// ListAccounts returns the stored accounts for a user, optionally filtered
// to a single aggregator account ID.
func (s *AccountService) ListAccounts(ctx context.Context, userID string, accountID string) ([]Account, error) {
	rows, err := s.accounts.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	converted := make([]Account, 0, len(rows))
	for _, row := range rows {
		if accountID != "" && row.PlaidAccountID != accountID {
			continue
		}
		converted = append(converted, accountFromStorage(row))
	}
	return converted, nil
}

// ListAccountsForItem returns the stored accounts under one item.
func (s *AccountService) ListAccountsForItem(ctx context.Context, itemID uuid.UUID) ([]Account, error) {
	rows, err := s.accounts.ListForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	converted := make([]Account, len(rows))
	for i, row := range rows {
		converted[i] = accountFromStorage(row)
	}
	return converted, nil
}
