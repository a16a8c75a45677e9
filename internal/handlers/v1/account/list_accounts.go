package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/service"
)

// ListAccountsInput is the Huma input for listing accounts.
type ListAccountsInput struct {
	UserID    string `query:"userID" required:"true" doc:"Opaque user identity"`
	AccountID string `query:"accountID" doc:"Optional aggregator account ID filter"`
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts []Account `json:"accounts" doc:"Stored accounts"`
}

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

// accountLister is the interface for listing stored accounts.
type accountLister interface {
	ListAccounts(ctx context.Context, userID string, accountID string) ([]service.Account, error)
}

// ListAccountsHandler handles GET /v1/accounts.
type ListAccountsHandler struct {
	AccountService accountLister
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(accounts accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{AccountService: accounts}
}

// Register registers the list accounts endpoint with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/accounts",
		Summary:     "List accounts",
		Description: "Returns the stored accounts across the user's linked items.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, input *ListAccountsInput) (*ListAccountsOutput, error) {
	accounts, err := h.AccountService.ListAccounts(ctx, input.UserID, input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list accounts", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountCount", len(accounts))
	}

	converted := make([]Account, len(accounts))
	for i, row := range accounts {
		converted[i] = fromService(row)
	}

	return &ListAccountsOutput{Body: ListAccountsResponseBody{Accounts: converted}}, nil
}
