package transaction

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/plaid"
	storageitem "github.com/carson-networks/link-server/internal/storage/item"
	"github.com/carson-networks/link-server/internal/syncer"
)

// GetRangeInput is the Huma input for a date-range transaction fetch.
type GetRangeInput struct {
	ItemID    string `query:"itemID" required:"true" doc:"Item UUID"`
	StartDate string `query:"startDate" required:"true" doc:"Range start, YYYY-MM-DD"`
	EndDate   string `query:"endDate" required:"true" doc:"Range end, YYYY-MM-DD"`
	Count     int    `query:"count" minimum:"1" maximum:"500" doc:"Page size, aggregator default when omitted"`
	Offset    int    `query:"offset" minimum:"0" doc:"Numeric offset into the range"`
}

// GetRangeResponseBody is the response body for a date-range fetch.
type GetRangeResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Transactions in the range"`
	Total        int           `json:"total" doc:"Total transactions the aggregator reports for the range"`
}

// GetRangeOutput is the Huma output for a date-range fetch.
type GetRangeOutput struct {
	Body GetRangeResponseBody
}

// rangeFetcher is the slice of the sync engine this handler needs.
type rangeFetcher interface {
	FetchTransactionRange(ctx context.Context, itemID uuid.UUID, startDate, endDate string, count, offset int) (*plaid.TransactionsResponse, error)
}

// GetRangeHandler handles GET /v1/transactions/range. The response comes
// straight from the aggregator and is never written to storage.
type GetRangeHandler struct {
	Syncer rangeFetcher
}

// NewGetRangeHandler creates a new GetRangeHandler.
func NewGetRangeHandler(engine rangeFetcher) *GetRangeHandler {
	return &GetRangeHandler{Syncer: engine}
}

// Register registers the range endpoint with the Huma API.
func (h *GetRangeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction-range",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/range",
		Summary:     "Get transactions for a date range",
		Description: "Fetches transactions for a fixed date range directly from the aggregator without updating stored state.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetRangeHandler) handle(ctx context.Context, input *GetRangeInput) (*GetRangeOutput, error) {
	itemID, err := uuid.FromString(input.ItemID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid item ID", err)
	}
	if _, parseErr := time.Parse(dateLayout, input.StartDate); parseErr != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid startDate", parseErr)
	}
	if _, parseErr := time.Parse(dateLayout, input.EndDate); parseErr != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid endDate", parseErr)
	}

	fetched, err := h.Syncer.FetchTransactionRange(ctx, itemID, input.StartDate, input.EndDate, input.Count, input.Offset)
	if err != nil {
		return nil, mapRangeError(err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("rangeTransactionCount", len(fetched.Transactions))
	}

	resp := GetRangeResponseBody{
		Transactions: make([]Transaction, len(fetched.Transactions)),
		Total:        fetched.TotalTransactions,
	}
	for i, tx := range fetched.Transactions {
		currency := ""
		if tx.ISOCurrencyCode != nil {
			currency = *tx.ISOCurrencyCode
		}
		resp.Transactions[i] = Transaction{
			ID:           tx.TransactionID,
			AccountID:    tx.AccountID,
			Amount:       tx.Amount.String(),
			CurrencyCode: currency,
			Name:         tx.Name,
			Date:         tx.Date,
			Category:     joinCategory(tx.Category),
			Pending:      tx.Pending,
		}
	}

	return &GetRangeOutput{Body: resp}, nil
}

func joinCategory(hierarchy []string) string {
	joined := ""
	for i, part := range hierarchy {
		if i > 0 {
			joined += " > "
		}
		joined += part
	}
	return joined
}

func mapRangeError(err error) error {
	switch {
	case errors.Is(err, storageitem.ErrNotFound):
		return huma.NewError(http.StatusNotFound, "item not found", err)
	case errors.Is(err, syncer.ErrItemRevoked):
		return huma.NewError(http.StatusGone, "item has been unlinked", err)
	case errors.Is(err, syncer.ErrAuthExpired):
		return huma.NewError(http.StatusUnauthorized, "item credential expired, re-link required", err)
	case errors.Is(err, syncer.ErrSyncFailed):
		return huma.NewError(http.StatusBadGateway, "aggregator unavailable", err)
	}
	if class, ok := plaid.ClassOf(err); ok {
		switch class {
		case plaid.ClassRateLimited:
			return huma.NewError(http.StatusTooManyRequests, "aggregator rate limit reached", err)
		case plaid.ClassInvalidRequest:
			return huma.NewError(http.StatusBadRequest, "aggregator rejected the request", err)
		}
	}
	return huma.NewError(http.StatusInternalServerError, "failed to fetch transactions", err)
}
