package item

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/linker"
	storageitem "github.com/carson-networks/link-server/internal/storage/item"
)

// RemoveItemInput is the Huma input for unlinking an item.
type RemoveItemInput struct {
	ID     string `path:"id" doc:"Item UUID"`
	UserID string `query:"userID" required:"true" doc:"Opaque user identity"`
}

// RemoveItemResponseBody confirms the unlink.
type RemoveItemResponseBody struct {
	Removed bool `json:"removed" doc:"True once the item and its data are gone"`
}

// RemoveItemOutput is the Huma output for unlinking an item.
type RemoveItemOutput struct {
	Body RemoveItemResponseBody
}

// itemUnlinker is the slice of the link manager this handler needs.
type itemUnlinker interface {
	Unlink(ctx context.Context, userID string, itemID uuid.UUID) error
}

// RemoveItemHandler handles DELETE /v1/items/{id}.
type RemoveItemHandler struct {
	Linker itemUnlinker
}

// NewRemoveItemHandler creates a new RemoveItemHandler.
func NewRemoveItemHandler(unlink itemUnlinker) *RemoveItemHandler {
	return &RemoveItemHandler{Linker: unlink}
}

// Register registers the remove item endpoint with the Huma API.
func (h *RemoveItemHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "remove-item",
		Method:      http.MethodDelete,
		Path:        "/v1/items/{id}",
		Summary:     "Remove item",
		Description: "Unlinks an institution connection and deletes its accounts and transactions.",
		Tags:        []string{"Items"},
	}, h.handle)
}

func (h *RemoveItemHandler) handle(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error) {
	itemID, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid item id", err)
	}

	if err := h.Linker.Unlink(ctx, input.UserID, itemID); err != nil {
		switch {
		case errors.Is(err, storageitem.ErrNotFound):
			return nil, huma.NewError(http.StatusNotFound, "item not found", err)
		case errors.Is(err, linker.ErrInvalidUser):
			return nil, huma.NewError(http.StatusBadRequest, "item does not belong to user", err)
		case errors.Is(err, linker.ErrUpstreamUnavailable):
			return nil, huma.NewError(http.StatusBadGateway, "aggregator unavailable", err)
		default:
			return nil, huma.NewError(http.StatusInternalServerError, "failed to remove item", err)
		}
	}

	return &RemoveItemOutput{Body: RemoveItemResponseBody{Removed: true}}, nil
}
