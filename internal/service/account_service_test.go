package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/link-server/internal/storage/account"
)

type mockAccountReader struct {
	mock.Mock
}

func (m *mockAccountReader) ListForUser(ctx context.Context, userID string) ([]*account.Account, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]*account.Account)
	return rows, args.Error(1)
}

func (m *mockAccountReader) ListForItem(ctx context.Context, itemID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, itemID)
	rows, _ := args.Get(0).([]*account.Account)
	return rows, args.Error(1)
}

func storedAccount(plaidAccountID string) *account.Account {
	return &account.Account{
		ID:             uuid.Must(uuid.NewV4()),
		PlaidAccountID: plaidAccountID,
		ItemID:         uuid.Must(uuid.NewV4()),
		Name:           "Checking",
		Type:           "depository",
		SubType:        "checking",
		CurrentBalance: decimal.NullDecimal{Decimal: decimal.RequireFromString("100.25"), Valid: true},
		CurrencyCode:   sql.NullString{String: "USD", Valid: true},
		BalanceAsOf:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestListAccounts_ConvertsBalances(t *testing.T) {
	reader := new(mockAccountReader)
	reader.On("ListForUser", mock.Anything, "user-1").
		Return([]*account.Account{storedAccount("acct-1")}, nil)

	svc := NewAccountService(reader)
	views, err := svc.ListAccounts(context.Background(), "user-1", "")
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "acct-1", views[0].ID)
	require.NotNil(t, views[0].CurrentBalance)
	assert.Equal(t, "100.25", views[0].CurrentBalance.String())
	assert.Nil(t, views[0].AvailableBalance)
	assert.Equal(t, "USD", views[0].CurrencyCode)
}

func TestListAccounts_FilterByAccountID(t *testing.T) {
	reader := new(mockAccountReader)
	reader.On("ListForUser", mock.Anything, "user-1").
		Return([]*account.Account{storedAccount("acct-1"), storedAccount("acct-2")}, nil)

	svc := NewAccountService(reader)
	views, err := svc.ListAccounts(context.Background(), "user-1", "acct-2")
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "acct-2", views[0].ID)
}

func TestListAccountsForItem(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())

	reader := new(mockAccountReader)
	reader.On("ListForItem", mock.Anything, itemID).
		Return([]*account.Account{storedAccount("acct-1")}, nil)

	svc := NewAccountService(reader)
	views, err := svc.ListAccountsForItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.Len(t, views, 1)
	reader.AssertExpectations(t)
}
