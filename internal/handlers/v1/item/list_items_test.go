package item

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/link-server/internal/service"
)

type mockItemLister struct {
	mock.Mock
}

func (m *mockItemLister) ListItems(ctx context.Context, userID string) ([]service.Item, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]service.Item)
	return items, args.Error(1)
}

func newListTestAPI(t *testing.T, svc itemLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListItemsHandler(svc).Register(api)
	return api
}

func TestHTTP_ListItems(t *testing.T) {
	itemID := uuid.Must(uuid.NewV4())
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mockSvc := new(mockItemLister)
	mockSvc.On("ListItems", mock.Anything, "user-1").Return([]service.Item{
		{
			ID:              itemID,
			UserID:          "user-1",
			InstitutionID:   "ins_1",
			InstitutionName: "First Platypus Bank",
			Status:          "active",
			HasSynced:       true,
			CreatedAt:       now,
		},
	}, nil)

	resp := newListTestAPI(t, mockSvc).Get("/v1/items?userID=user-1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListItemsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, itemID.String(), body.Items[0].ID)
	assert.Equal(t, "active", body.Items[0].Status)
	assert.True(t, body.Items[0].HasSynced)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListItems_Empty(t *testing.T) {
	mockSvc := new(mockItemLister)
	mockSvc.On("ListItems", mock.Anything, "user-1").Return(([]service.Item)(nil), nil)

	resp := newListTestAPI(t, mockSvc).Get("/v1/items?userID=user-1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListItemsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Items)
}

func TestHTTP_ListItems_ServiceError(t *testing.T) {
	mockSvc := new(mockItemLister)
	mockSvc.On("ListItems", mock.Anything, "user-1").
		Return(([]service.Item)(nil), errors.New("database unavailable"))

	resp := newListTestAPI(t, mockSvc).Get("/v1/items?userID=user-1")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
