package link

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/link-server/internal/linker"
	"github.com/carson-networks/link-server/internal/logging"
)

// ExchangePublicTokenBody is the request body for completing a link session.
type ExchangePublicTokenBody struct {
	UserID      string `json:"userID" required:"true" doc:"Opaque user identity"`
	PublicToken string `json:"publicToken" required:"true" doc:"Single-use public token from the widget"`
}

// ExchangePublicTokenInput is the Huma input for completing a link session.
type ExchangePublicTokenInput struct {
	Body ExchangePublicTokenBody
}

// LinkedItemBody is the confirmation returned once the item is stored. The
// access token produced by the exchange is never part of the response.
type LinkedItemBody struct {
	ItemID          string    `json:"itemID" doc:"Item UUID"`
	InstitutionID   string    `json:"institutionID" doc:"Aggregator institution ID"`
	InstitutionName string    `json:"institutionName" doc:"Institution display name"`
	Status          string    `json:"status" doc:"Item status"`
	CreatedAt       time.Time `json:"createdAt" doc:"When the item was first linked"`
}

// ExchangePublicTokenOutput is the Huma output for completing a link session.
type ExchangePublicTokenOutput struct {
	Body LinkedItemBody
}

// sessionCompleter is the slice of the link manager this handler needs.
type sessionCompleter interface {
	CompleteLinkSession(ctx context.Context, userID string, publicToken string) (*linker.LinkedItem, error)
}

// ExchangePublicTokenHandler handles POST /v1/link/exchange.
type ExchangePublicTokenHandler struct {
	Linker sessionCompleter
}

// NewExchangePublicTokenHandler creates a new ExchangePublicTokenHandler.
func NewExchangePublicTokenHandler(sessionLinker sessionCompleter) *ExchangePublicTokenHandler {
	return &ExchangePublicTokenHandler{Linker: sessionLinker}
}

// Register registers the exchange endpoint with the Huma API.
func (h *ExchangePublicTokenHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "exchange-public-token",
		Method:      http.MethodPost,
		Path:        "/v1/link/exchange",
		Summary:     "Exchange public token",
		Description: "Completes a link session by exchanging the widget's public token and persisting the item.",
		Tags:        []string{"Link"},
	}, h.handle)
}

func (h *ExchangePublicTokenHandler) handle(ctx context.Context, input *ExchangePublicTokenInput) (*ExchangePublicTokenOutput, error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", input.Body.UserID)
	}

	linked, err := h.Linker.CompleteLinkSession(ctx, input.Body.UserID, input.Body.PublicToken)
	if err != nil {
		switch {
		case errors.Is(err, linker.ErrInvalidUser):
			return nil, huma.NewError(http.StatusBadRequest, "invalid user", err)
		case errors.Is(err, linker.ErrExchangeFailed):
			return nil, huma.NewError(http.StatusUnprocessableEntity, "public token rejected, restart the link flow", err)
		default:
			return nil, huma.NewError(http.StatusInternalServerError, "failed to complete link session", err)
		}
	}

	return &ExchangePublicTokenOutput{
		Body: LinkedItemBody{
			ItemID:          linked.ID.String(),
			InstitutionID:   linked.InstitutionID,
			InstitutionName: linked.InstitutionName,
			Status:          string(linked.Status),
			CreatedAt:       linked.CreatedAt,
		},
	}, nil
}
