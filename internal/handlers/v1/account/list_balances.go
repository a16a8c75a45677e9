package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/service"
)

// ListBalancesInput is the Huma input for fetching refreshed balances.
type ListBalancesInput struct {
	UserID string `query:"userID" required:"true" doc:"Opaque user identity"`
}

// ListBalancesOutput is the Huma output for fetching refreshed balances.
type ListBalancesOutput struct {
	Body ListAccountsResponseBody
}

// balanceRefresher refreshes one item's balance snapshots upstream.
type balanceRefresher interface {
	RefreshBalances(ctx context.Context, itemID uuid.UUID) error
}

// itemLister lists the user's items so each can be refreshed.
type itemLister interface {
	ListItems(ctx context.Context, userID string) ([]service.Item, error)
}

// ListBalancesHandler handles GET /v1/balances. It refreshes balances for
// every active item before returning the stored snapshots; items whose
// refresh fails still contribute their last stored balance.
type ListBalancesHandler struct {
	ItemService    itemLister
	AccountService accountLister
	Syncer         balanceRefresher
}

// NewListBalancesHandler creates a new ListBalancesHandler.
func NewListBalancesHandler(items itemLister, accounts accountLister, refresher balanceRefresher) *ListBalancesHandler {
	return &ListBalancesHandler{
		ItemService:    items,
		AccountService: accounts,
		Syncer:         refresher,
	}
}

// Register registers the balances endpoint with the Huma API.
func (h *ListBalancesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-balances",
		Method:      http.MethodGet,
		Path:        "/v1/balances",
		Summary:     "List balances",
		Description: "Refreshes and returns current balances across the user's linked items.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListBalancesHandler) handle(ctx context.Context, input *ListBalancesInput) (*ListBalancesOutput, error) {
	items, err := h.ItemService.ListItems(ctx, input.UserID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list items", err)
	}

	logData := logging.GetLogData(ctx)
	refreshFailures := 0
	for _, row := range items {
		if row.Status != "active" {
			continue
		}
		if err := h.Syncer.RefreshBalances(ctx, row.ID); err != nil {
			refreshFailures++
		}
	}
	if logData != nil {
		logData.AddData("refreshFailures", refreshFailures)
	}

	accounts, err := h.AccountService.ListAccounts(ctx, input.UserID, "")
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list accounts", err)
	}

	converted := make([]Account, len(accounts))
	for i, row := range accounts {
		converted[i] = fromService(row)
	}

	return &ListBalancesOutput{Body: ListAccountsResponseBody{Accounts: converted}}, nil
}
