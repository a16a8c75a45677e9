package linker

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/link-server/internal/events"
	"github.com/carson-networks/link-server/internal/operator/actions"
	"github.com/carson-networks/link-server/internal/plaid"
	"github.com/carson-networks/link-server/internal/storage/item"
)

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) CreateLinkToken(ctx context.Context, userID string, accessToken string) (*plaid.LinkToken, error) {
	args := m.Called(ctx, userID, accessToken)
	token, _ := args.Get(0).(*plaid.LinkToken)
	return token, args.Error(1)
}

func (m *mockAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.PublicTokenExchange, error) {
	args := m.Called(ctx, publicToken)
	exchange, _ := args.Get(0).(*plaid.PublicTokenExchange)
	return exchange, args.Error(1)
}

func (m *mockAggregator) GetAccounts(ctx context.Context, accessToken string, accountIDs []string) (*plaid.AccountsResponse, error) {
	args := m.Called(ctx, accessToken, accountIDs)
	res, _ := args.Get(0).(*plaid.AccountsResponse)
	return res, args.Error(1)
}

func (m *mockAggregator) GetInstitution(ctx context.Context, institutionID string) (*plaid.Institution, error) {
	args := m.Called(ctx, institutionID)
	res, _ := args.Get(0).(*plaid.Institution)
	return res, args.Error(1)
}

func (m *mockAggregator) RemoveItem(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

type mockItemReader struct {
	mock.Mock
}

func (m *mockItemReader) FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	args := m.Called(ctx, id)
	stored, _ := args.Get(0).(*item.Item)
	return stored, args.Error(1)
}

func upstreamError(class plaid.Class, errorType, errorCode string) *plaid.Error {
	return &plaid.Error{
		Class:     class,
		ErrorType: errorType,
		ErrorCode: errorCode,
		Message:   errorCode,
	}
}

func TestCreateLinkSession_NewLink(t *testing.T) {
	agg := new(mockAggregator)
	agg.On("CreateLinkToken", mock.Anything, "user-1", "").
		Return(&plaid.LinkToken{
			LinkToken:  "link-sandbox-abc",
			Expiration: "2026-08-29T12:00:00Z",
		}, nil)

	manager := NewManager(agg, new(mockProcessor), new(mockItemReader), nil)
	session, err := manager.CreateLinkSession(context.Background(), "user-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "link-sandbox-abc", session.LinkToken)
	assert.Equal(t, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), session.Expiration)
	agg.AssertExpectations(t)
}

func TestCreateLinkSession_EmptyUser(t *testing.T) {
	manager := NewManager(new(mockAggregator), new(mockProcessor), new(mockItemReader), nil)

	_, err := manager.CreateLinkSession(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestCreateLinkSession_UpdateModePassesStoredToken(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())

	items := new(mockItemReader)
	items.On("FindByID", mock.Anything, itemID).Return(&item.Item{
		ID:          itemID,
		UserID:      "user-1",
		AccessToken: "access-stored",
	}, nil)

	agg := new(mockAggregator)
	agg.On("CreateLinkToken", mock.Anything, "user-1", "access-stored").
		Return(&plaid.LinkToken{
			LinkToken:  "link-update-mode",
			Expiration: "2026-08-29T12:00:00Z",
		}, nil)

	manager := NewManager(agg, new(mockProcessor), items, nil)
	session, err := manager.CreateLinkSession(context.Background(), "user-1", &itemID)
	require.NoError(t, err)
	assert.Equal(t, "link-update-mode", session.LinkToken)
	agg.AssertExpectations(t)
}

func TestCreateLinkSession_UpdateModeWrongOwner(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())

	items := new(mockItemReader)
	items.On("FindByID", mock.Anything, itemID).Return(&item.Item{
		ID:     itemID,
		UserID: "someone-else",
	}, nil)

	manager := NewManager(new(mockAggregator), new(mockProcessor), items, nil)
	_, err := manager.CreateLinkSession(context.Background(), "user-1", &itemID)
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestCreateLinkSession_UpstreamDown(t *testing.T) {
	agg := new(mockAggregator)
	agg.On("CreateLinkToken", mock.Anything, "user-1", "").
		Return(nil, upstreamError(plaid.ClassNetworkFailure, "", ""))

	manager := NewManager(agg, new(mockProcessor), new(mockItemReader), nil)
	_, err := manager.CreateLinkSession(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestCompleteLinkSession_PersistsItemAndEmits(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())
	institutionID := "ins_109508"

	agg := new(mockAggregator)
	agg.On("ExchangePublicToken", mock.Anything, "public-token").
		Return(&plaid.PublicTokenExchange{
			AccessToken: "access-new",
			ItemID:      "plaid-item-1",
		}, nil)
	agg.On("GetAccounts", mock.Anything, "access-new", ([]string)(nil)).
		Return(&plaid.AccountsResponse{
			Accounts: []plaid.Account{
				{AccountID: "acct-1", Name: "Checking", Type: "depository", Subtype: "checking"},
			},
			Item: plaid.Item{ItemID: "plaid-item-1", InstitutionID: &institutionID},
		}, nil)
	agg.On("GetInstitution", mock.Anything, institutionID).
		Return(&plaid.Institution{InstitutionID: institutionID, Name: "First Platypus Bank"}, nil)

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(action actions.IAction) bool {
		save, ok := action.(*actions.SaveItem)
		if !ok {
			return false
		}
		return save.UserID == "user-1" &&
			save.PlaidItemID == "plaid-item-1" &&
			save.AccessToken == "access-new" &&
			save.InstitutionID == institutionID &&
			save.InstitutionName == "First Platypus Bank" &&
			len(save.Accounts) == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*actions.SaveItem).ItemID = itemID
	}).Return(nil)

	items := new(mockItemReader)
	items.On("FindByID", mock.Anything, itemID).Return(&item.Item{
		ID:              itemID,
		UserID:          "user-1",
		InstitutionID:   institutionID,
		InstitutionName: "First Platypus Bank",
		Status:          item.StatusActive,
	}, nil)

	bridge := events.NewBridge()
	linked := make(chan events.Event, 1)
	bridge.Subscribe(events.EventItemLinked, func(e events.Event) { linked <- e })

	manager := NewManager(agg, op, items, bridge)
	view, err := manager.CompleteLinkSession(context.Background(), "user-1", "public-token")
	require.NoError(t, err)

	assert.Equal(t, itemID, view.ID)
	assert.Equal(t, "First Platypus Bank", view.InstitutionName)
	assert.Equal(t, item.StatusActive, view.Status)

	select {
	case event := <-linked:
		assert.Equal(t, events.EventItemLinked, event.Name)
	case <-time.After(time.Second):
		t.Fatal("item.linked event was not emitted")
	}

	agg.AssertExpectations(t)
	op.AssertExpectations(t)
}

func TestCompleteLinkSession_FailedExchangeCreatesNothing(t *testing.T) {
	agg := new(mockAggregator)
	agg.On("ExchangePublicToken", mock.Anything, "public-expired").
		Return(nil, upstreamError(plaid.ClassInvalidRequest, "INVALID_INPUT", "INVALID_PUBLIC_TOKEN"))

	op := new(mockProcessor)

	manager := NewManager(agg, op, new(mockItemReader), nil)
	_, err := manager.CompleteLinkSession(context.Background(), "user-1", "public-expired")

	assert.ErrorIs(t, err, ErrExchangeFailed)
	op.AssertNotCalled(t, "Process")
}

func TestCompleteLinkSession_EmptyPublicToken(t *testing.T) {
	manager := NewManager(new(mockAggregator), new(mockProcessor), new(mockItemReader), nil)

	_, err := manager.CompleteLinkSession(context.Background(), "user-1", "")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func TestUnlink_RemovesUpstreamAndStorage(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())

	items := new(mockItemReader)
	items.On("FindByID", mock.Anything, itemID).Return(&item.Item{
		ID:          itemID,
		UserID:      "user-1",
		AccessToken: "access-1",
	}, nil)

	agg := new(mockAggregator)
	agg.On("RemoveItem", mock.Anything, "access-1").Return(nil)

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(action actions.IAction) bool {
		remove, ok := action.(*actions.RemoveItem)
		return ok && remove.ItemID == itemID
	})).Return(nil)

	manager := NewManager(agg, op, items, nil)
	require.NoError(t, manager.Unlink(context.Background(), "user-1", itemID))

	agg.AssertExpectations(t)
	op.AssertExpectations(t)
}

func TestUnlink_DeadCredentialStillRemoves(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())

	items := new(mockItemReader)
	items.On("FindByID", mock.Anything, itemID).Return(&item.Item{
		ID:          itemID,
		UserID:      "user-1",
		AccessToken: "access-1",
	}, nil)

	agg := new(mockAggregator)
	agg.On("RemoveItem", mock.Anything, "access-1").
		Return(upstreamError(plaid.ClassAuthExpired, "ITEM_ERROR", "ITEM_LOGIN_REQUIRED"))

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.Anything).Return(nil)

	manager := NewManager(agg, op, items, nil)
	require.NoError(t, manager.Unlink(context.Background(), "user-1", itemID))
	op.AssertExpectations(t)
}

func TestUnlink_WrongOwner(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())

	items := new(mockItemReader)
	items.On("FindByID", mock.Anything, itemID).Return(&item.Item{
		ID:     itemID,
		UserID: "someone-else",
	}, nil)

	op := new(mockProcessor)

	manager := NewManager(new(mockAggregator), op, items, nil)
	err := manager.Unlink(context.Background(), "user-1", itemID)

	assert.ErrorIs(t, err, ErrInvalidUser)
	op.AssertNotCalled(t, "Process")
}
