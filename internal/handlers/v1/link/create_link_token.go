package link

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/linker"
	"github.com/carson-networks/link-server/internal/logging"
)

// CreateLinkTokenBody is the request body for starting a link session.
type CreateLinkTokenBody struct {
	UserID string `json:"userID" required:"true" doc:"Opaque user identity"`
	ItemID string `json:"itemID,omitempty" doc:"Existing item UUID for update-mode re-linking"`
}

// CreateLinkTokenInput is the Huma input for starting a link session.
type CreateLinkTokenInput struct {
	Body CreateLinkTokenBody
}

// CreateLinkTokenResponseBody carries the ephemeral widget token.
type CreateLinkTokenResponseBody struct {
	LinkToken  string    `json:"linkToken" doc:"Ephemeral link token for the widget"`
	Expiration time.Time `json:"expiration" doc:"When the aggregator stops accepting the token"`
}

// CreateLinkTokenOutput is the Huma output for starting a link session.
type CreateLinkTokenOutput struct {
	Body CreateLinkTokenResponseBody
}

// sessionCreator is the slice of the link manager this handler needs.
type sessionCreator interface {
	CreateLinkSession(ctx context.Context, userID string, updateItemID *uuid.UUID) (*linker.LinkSession, error)
}

// CreateLinkTokenHandler handles POST /v1/link/token.
type CreateLinkTokenHandler struct {
	Linker sessionCreator
}

// NewCreateLinkTokenHandler creates a new CreateLinkTokenHandler.
func NewCreateLinkTokenHandler(sessionLinker sessionCreator) *CreateLinkTokenHandler {
	return &CreateLinkTokenHandler{Linker: sessionLinker}
}

// Register registers the create link token endpoint with the Huma API.
func (h *CreateLinkTokenHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-link-token",
		Method:      http.MethodPost,
		Path:        "/v1/link/token",
		Summary:     "Create link token",
		Description: "Starts a link session by creating an ephemeral widget token.",
		Tags:        []string{"Link"},
	}, h.handle)
}

func (h *CreateLinkTokenHandler) handle(ctx context.Context, input *CreateLinkTokenInput) (*CreateLinkTokenOutput, error) {
	var updateItemID *uuid.UUID
	if input.Body.ItemID != "" {
		parsed, err := uuid.FromString(input.Body.ItemID)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid itemID", err)
		}
		updateItemID = &parsed
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", input.Body.UserID)
	}

	session, err := h.Linker.CreateLinkSession(ctx, input.Body.UserID, updateItemID)
	if err != nil {
		switch {
		case errors.Is(err, linker.ErrInvalidUser):
			return nil, huma.NewError(http.StatusBadRequest, "invalid user", err)
		case errors.Is(err, linker.ErrUpstreamUnavailable):
			return nil, huma.NewError(http.StatusBadGateway, "aggregator unavailable", err)
		default:
			return nil, huma.NewError(http.StatusInternalServerError, "failed to create link token", err)
		}
	}

	return &CreateLinkTokenOutput{
		Body: CreateLinkTokenResponseBody{
			LinkToken:  session.LinkToken,
			Expiration: session.Expiration,
		},
	}, nil
}
