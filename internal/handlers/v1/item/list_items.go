package item

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/service"
)

// ListItemsInput is the Huma input for listing a user's items.
type ListItemsInput struct {
	UserID string `query:"userID" required:"true" doc:"Opaque user identity"`
}

// ListItemsResponseBody is the response body for listing items.
type ListItemsResponseBody struct {
	Items []Item `json:"items" doc:"Linked institution connections"`
}

// ListItemsOutput is the Huma output for listing items.
type ListItemsOutput struct {
	Body ListItemsResponseBody
}

// itemLister is the interface for listing item views.
type itemLister interface {
	ListItems(ctx context.Context, userID string) ([]service.Item, error)
}

// ListItemsHandler handles GET /v1/items.
type ListItemsHandler struct {
	ItemService itemLister
}

// NewListItemsHandler creates a new ListItemsHandler.
func NewListItemsHandler(items itemLister) *ListItemsHandler {
	return &ListItemsHandler{ItemService: items}
}

// Register registers the list items endpoint with the Huma API.
func (h *ListItemsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/v1/items",
		Summary:     "List items",
		Description: "Returns the user's linked institution connections.",
		Tags:        []string{"Items"},
	}, h.handle)
}

func (h *ListItemsHandler) handle(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	items, err := h.ItemService.ListItems(ctx, input.UserID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list items", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("itemCount", len(items))
	}

	converted := make([]Item, len(items))
	for i, row := range items {
		converted[i] = Item{
			ID:              row.ID.String(),
			InstitutionID:   row.InstitutionID,
			InstitutionName: row.InstitutionName,
			Status:          row.Status,
			HasSynced:       row.HasSynced,
			CreatedAt:       row.CreatedAt,
		}
	}

	return &ListItemsOutput{Body: ListItemsResponseBody{Items: converted}}, nil
}
