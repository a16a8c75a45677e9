package institution

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/link-server/internal/plaid"
)

// Category is the API response model for an aggregator category.
type Category struct {
	CategoryID string   `json:"categoryID" doc:"Aggregator category ID"`
	Group      string   `json:"group" doc:"Category group"`
	Hierarchy  []string `json:"hierarchy" doc:"Category path from general to specific"`
}

// ListCategoriesResponseBody is the response body for listing categories.
type ListCategoriesResponseBody struct {
	Categories []Category `json:"categories" doc:"Aggregator category taxonomy"`
}

// ListCategoriesOutput is the Huma output for listing categories.
type ListCategoriesOutput struct {
	Body ListCategoriesResponseBody
}

// categoryLister fetches the category taxonomy from the aggregator.
type categoryLister interface {
	GetCategories(ctx context.Context) ([]plaid.Category, error)
}

// ListCategoriesHandler handles GET /v1/categories.
type ListCategoriesHandler struct {
	Plaid categoryLister
}

// NewListCategoriesHandler creates a new ListCategoriesHandler.
func NewListCategoriesHandler(client categoryLister) *ListCategoriesHandler {
	return &ListCategoriesHandler{Plaid: client}
}

// Register registers the categories endpoint with the Huma API.
func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/categories",
		Summary:     "List categories",
		Description: "Returns the aggregator's transaction category taxonomy.",
		Tags:        []string{"Institutions"},
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := h.Plaid.GetCategories(ctx)
	if err != nil {
		return nil, mapAggregatorError(err, "failed to list categories")
	}

	converted := make([]Category, len(categories))
	for i, row := range categories {
		converted[i] = Category{
			CategoryID: row.CategoryID,
			Group:      row.Group,
			Hierarchy:  row.Hierarchy,
		}
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponseBody{Categories: converted}}, nil
}
