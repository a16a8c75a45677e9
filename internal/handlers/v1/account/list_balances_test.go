package account

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/link-server/internal/service"
	"github.com/carson-networks/link-server/internal/syncer"
)

type mockBalanceRefresher struct {
	mock.Mock
}

func (m *mockBalanceRefresher) RefreshBalances(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

type mockItemLister struct {
	mock.Mock
}

func (m *mockItemLister) ListItems(ctx context.Context, userID string) ([]service.Item, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]service.Item)
	return items, args.Error(1)
}

func newBalancesTestAPI(t *testing.T, items itemLister, accounts accountLister, refresher balanceRefresher) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListBalancesHandler(items, accounts, refresher).Register(api)
	return api
}

func TestHTTP_ListBalances_RefreshesActiveItems(t *testing.T) {
	activeID := uuid.Must(uuid.NewV4())
	loginRequiredID := uuid.Must(uuid.NewV4())

	items := new(mockItemLister)
	items.On("ListItems", mock.Anything, "user-1").Return([]service.Item{
		{ID: activeID, UserID: "user-1", Status: "active"},
		{ID: loginRequiredID, UserID: "user-1", Status: "login_required"},
	}, nil)

	refresher := new(mockBalanceRefresher)
	refresher.On("RefreshBalances", mock.Anything, activeID).Return(nil)

	accounts := new(mockAccountLister)
	accounts.On("ListAccounts", mock.Anything, "user-1", "").
		Return([]service.Account{serviceAccount("acct-1")}, nil)

	resp := newBalancesTestAPI(t, items, accounts, refresher).Get("/v1/balances?userID=user-1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Accounts, 1)

	refresher.AssertExpectations(t)
	refresher.AssertNotCalled(t, "RefreshBalances", mock.Anything, loginRequiredID)
}

func TestHTTP_ListBalances_FailedRefreshStillReturnsStored(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())

	items := new(mockItemLister)
	items.On("ListItems", mock.Anything, "user-1").Return([]service.Item{
		{ID: itemID, UserID: "user-1", Status: "active"},
	}, nil)

	refresher := new(mockBalanceRefresher)
	refresher.On("RefreshBalances", mock.Anything, itemID).Return(syncer.ErrSyncFailed)

	accounts := new(mockAccountLister)
	accounts.On("ListAccounts", mock.Anything, "user-1", "").
		Return([]service.Account{serviceAccount("acct-1")}, nil)

	resp := newBalancesTestAPI(t, items, accounts, refresher).Get("/v1/balances?userID=user-1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Accounts, 1)
}

func TestHTTP_ListBalances_NoItems(t *testing.T) {
	items := new(mockItemLister)
	items.On("ListItems", mock.Anything, "user-1").Return(([]service.Item)(nil), nil)

	accounts := new(mockAccountLister)
	accounts.On("ListAccounts", mock.Anything, "user-1", "").
		Return(([]service.Account)(nil), nil)

	refresher := new(mockBalanceRefresher)

	resp := newBalancesTestAPI(t, items, accounts, refresher).Get("/v1/balances?userID=user-1")

	assert.Equal(t, http.StatusOK, resp.Code)
	refresher.AssertNotCalled(t, "RefreshBalances")
}
