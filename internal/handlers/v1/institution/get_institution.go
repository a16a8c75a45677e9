package institution

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/link-server/internal/plaid"
)

// Institution is the API response model for an institution lookup.
type Institution struct {
	InstitutionID string   `json:"institutionID" doc:"Aggregator institution ID"`
	Name          string   `json:"name" doc:"Institution display name"`
	Products      []string `json:"products,omitempty" doc:"Products the institution supports"`
	CountryCodes  []string `json:"countryCodes,omitempty" doc:"Countries the institution serves"`
	URL           string   `json:"url,omitempty" doc:"Institution website"`
	PrimaryColor  string   `json:"primaryColor,omitempty" doc:"Brand color"`
	Logo          string   `json:"logo,omitempty" doc:"Base64 encoded logo"`
}

// GetInstitutionInput is the Huma input for an institution lookup.
type GetInstitutionInput struct {
	InstitutionID string `path:"id" doc:"Aggregator institution ID"`
}

// GetInstitutionOutput is the Huma output for an institution lookup.
type GetInstitutionOutput struct {
	Body Institution
}

// institutionGetter fetches institution metadata from the aggregator.
type institutionGetter interface {
	GetInstitution(ctx context.Context, institutionID string) (*plaid.Institution, error)
}

// GetInstitutionHandler handles GET /v1/institutions/{id}.
type GetInstitutionHandler struct {
	Plaid institutionGetter
}

// NewGetInstitutionHandler creates a new GetInstitutionHandler.
func NewGetInstitutionHandler(client institutionGetter) *GetInstitutionHandler {
	return &GetInstitutionHandler{Plaid: client}
}

// Register registers the institution lookup endpoint with the Huma API.
func (h *GetInstitutionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-institution",
		Method:      http.MethodGet,
		Path:        "/v1/institutions/{id}",
		Summary:     "Get institution",
		Description: "Fetches display metadata for an institution from the aggregator.",
		Tags:        []string{"Institutions"},
	}, h.handle)
}

func (h *GetInstitutionHandler) handle(ctx context.Context, input *GetInstitutionInput) (*GetInstitutionOutput, error) {
	fetched, err := h.Plaid.GetInstitution(ctx, input.InstitutionID)
	if err != nil {
		return nil, mapAggregatorError(err, "failed to get institution")
	}

	return &GetInstitutionOutput{Body: Institution{
		InstitutionID: fetched.InstitutionID,
		Name:          fetched.Name,
		Products:      fetched.Products,
		CountryCodes:  fetched.CountryCodes,
		URL:           fetched.URL,
		PrimaryColor:  fetched.PrimaryColor,
		Logo:          fetched.Logo,
	}}, nil
}

func mapAggregatorError(err error, message string) error {
	if class, ok := plaid.ClassOf(err); ok {
		switch class {
		case plaid.ClassInvalidRequest:
			return huma.NewError(http.StatusBadRequest, message, err)
		case plaid.ClassRateLimited:
			return huma.NewError(http.StatusTooManyRequests, message, err)
		case plaid.ClassUpstreamError, plaid.ClassNetworkFailure:
			return huma.NewError(http.StatusBadGateway, message, err)
		}
	}
	var plaidErr *plaid.Error
	if errors.As(err, &plaidErr) {
		return huma.NewError(http.StatusBadGateway, message, err)
	}
	return huma.NewError(http.StatusInternalServerError, message, err)
}
