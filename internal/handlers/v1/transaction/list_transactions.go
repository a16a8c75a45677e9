package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/service"
)

const dateLayout = "2006-01-02"

// ListTransactionsCursor represents a pagination cursor in request and response bodies.
// It bundles position, limit, and maxDate so subsequent pages stay consistent
// while new sync cycles land rows.
type ListTransactionsCursor struct {
	Position int    `json:"position" minimum:"0" doc:"Numeric offset position for the next page"`
	Limit    int    `json:"limit" minimum:"1" maximum:"100" doc:"Page size used for this cursor"`
	MaxDate  string `json:"maxDate" doc:"Upper bound on transaction date locked in from the first page, YYYY-MM-DD"`
}

// ListTransactionsBody is the request body for listing transactions.
type ListTransactionsBody struct {
	UserID    string                  `json:"userID" required:"true" doc:"Opaque user identity"`
	AccountID string                  `json:"accountID,omitempty" doc:"Optional aggregator account ID filter"`
	Cursor    *ListTransactionsCursor `json:"cursor,omitempty" doc:"Cursor from a previous response to fetch the next page"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Body ListTransactionsBody
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing stored transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, userID string, accountID string, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles POST /v1/transactions/list.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transactions/list",
		Summary:     "List transactions",
		Description: "Returns a paginated list of synced transactions using cursor-based pagination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input.
// When a cursor is provided, limit and maxDate come from it. Without a
// cursor, the service uses its default limit.
func parseListTransactionsInput(input *ListTransactionsInput) (cursor *service.TransactionCursor, err error) {
	if input.Body.Cursor == nil {
		return nil, nil
	}

	if input.Body.Cursor.Position < 0 {
		return nil, huma.NewError(http.StatusBadRequest, "cursor position must be non-negative")
	}

	maxDate, parseErr := time.Parse(dateLayout, input.Body.Cursor.MaxDate)
	if parseErr != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid cursor maxDate", parseErr)
	}

	return &service.TransactionCursor{
		Position: input.Body.Cursor.Position,
		Limit:    input.Body.Cursor.Limit,
		MaxDate:  maxDate,
	}, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	requestCursor, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	transactions, nextCursor, err := h.TransactionService.ListTransactions(ctx, input.Body.UserID, input.Body.AccountID, requestCursor)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list transactions", err)
	}

	if logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
	}

	for i, tx := range transactions {
		resp.Transactions[i] = Transaction{
			ID:           tx.ID,
			AccountID:    tx.AccountID,
			Amount:       tx.Amount.String(),
			CurrencyCode: tx.CurrencyCode,
			Name:         tx.Name,
			Date:         tx.Date.Format(dateLayout),
			Category:     tx.Category,
			Pending:      tx.Pending,
		}
	}

	if nextCursor != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position: nextCursor.Position,
			Limit:    nextCursor.Limit,
			MaxDate:  nextCursor.MaxDate.Format(dateLayout),
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
