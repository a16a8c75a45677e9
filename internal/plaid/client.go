package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const (
	endpointLinkTokenCreate     = "/link/token/create"
	endpointPublicTokenExchange = "/item/public_token/exchange"
	endpointItemRemove          = "/item/remove"
	endpointAccountsGet         = "/accounts/get"
	endpointBalanceGet          = "/accounts/balance/get"
	endpointInstitutionGet      = "/institutions/get_by_id"
	endpointCategoriesGet       = "/categories/get"
	endpointTransactionsGet     = "/transactions/get"
	endpointTransactionsSync    = "/transactions/sync"
)

// allowedEndpoints is the full set of aggregator endpoints this client will
// relay. Anything else is rejected before a request is built, so the relay
// can never be driven as an open proxy.
var allowedEndpoints = map[string]struct{}{
	endpointLinkTokenCreate:     {},
	endpointPublicTokenExchange: {},
	endpointItemRemove:          {},
	endpointAccountsGet:         {},
	endpointBalanceGet:          {},
	endpointInstitutionGet:      {},
	endpointCategoriesGet:       {},
	endpointTransactionsGet:     {},
	endpointTransactionsSync:    {},
}

// Config carries the static aggregator credentials and environment base URL.
type Config struct {
	ClientID     string
	Secret       string
	BaseURL      string
	ClientName   string
	Language     string
	CountryCodes []string
	Products     []string
}

// Client is a stateless typed wrapper over the aggregator REST API. It
// classifies failures (see errors.go) and performs no retries; retry policy
// belongs to the linker and syncer.
type Client struct {
	httpClient *http.Client
	config     Config
}

func NewClient(config Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.ClientName == "" {
		config.ClientName = "link-server"
	}
	if config.Language == "" {
		config.Language = "en"
	}
	if len(config.CountryCodes) == 0 {
		config.CountryCodes = []string{"US", "CA"}
	}
	if len(config.Products) == 0 {
		config.Products = []string{"transactions"}
	}
	return &Client{
		httpClient: httpClient,
		config:     config,
	}
}

// relayEnvelope is the wire form the upstream relay accepts: the endpoint
// to forward to plus the endpoint's own request body.
type relayEnvelope struct {
	Endpoint string          `json:"endpoint"`
	Data     json.RawMessage `json:"data,omitempty"`
}

func (c *Client) post(ctx context.Context, endpoint string, request interface{}, response interface{}) error {
	if _, ok := allowedEndpoints[endpoint]; !ok {
		return invalidRequestError("endpoint not allowed: " + endpoint)
	}

	var data json.RawMessage
	if request != nil {
		encoded, err := json.Marshal(request)
		if err != nil {
			return invalidRequestError("encode request: " + err.Error())
		}
		data = encoded
	}

	body, err := json.Marshal(relayEnvelope{Endpoint: endpoint, Data: data})
	if err != nil {
		return invalidRequestError("encode envelope: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return invalidRequestError("build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PLAID-CLIENT-ID", c.config.ClientID)
	req.Header.Set("PLAID-SECRET", c.config.Secret)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return networkError(err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var upstream apiError
		if err := json.Unmarshal(resBody, &upstream); err != nil || upstream.ErrorType == "" {
			return &Error{
				Class:      ClassUpstreamError,
				Message:    http.StatusText(res.StatusCode),
				StatusCode: res.StatusCode,
			}
		}
		return classify(res.StatusCode, &upstream)
	}

	if response == nil {
		return nil
	}
	if err := json.Unmarshal(resBody, response); err != nil {
		return &Error{
			Class:      ClassUpstreamError,
			Message:    "decode response: " + err.Error(),
			StatusCode: res.StatusCode,
			cause:      err,
		}
	}
	return nil
}

// CreateLinkToken requests an ephemeral link token scoped to the user.
// A non-empty accessToken puts the widget in update mode for re-linking an
// existing item.
func (c *Client) CreateLinkToken(ctx context.Context, userID string, accessToken string) (*LinkToken, error) {
	request := linkTokenCreateRequest{
		ClientName:   c.config.ClientName,
		Language:     c.config.Language,
		CountryCodes: c.config.CountryCodes,
		Products:     c.config.Products,
		AccessToken:  accessToken,
		User:         User{ClientUserID: userID},
	}

	var response LinkToken
	if err := c.post(ctx, endpointLinkTokenCreate, &request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ExchangePublicToken trades the widget's single-use public token for a
// long-lived access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*PublicTokenExchange, error) {
	request := publicTokenExchangeRequest{PublicToken: publicToken}

	var response PublicTokenExchange
	if err := c.post(ctx, endpointPublicTokenExchange, &request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// RemoveItem invalidates the access token upstream.
func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	request := itemRemoveRequest{AccessToken: accessToken}
	return c.post(ctx, endpointItemRemove, &request, nil)
}

// GetAccounts lists accounts under an access token, optionally filtered to
// specific aggregator account IDs.
func (c *Client) GetAccounts(ctx context.Context, accessToken string, accountIDs []string) (*AccountsResponse, error) {
	request := accountsGetRequest{AccessToken: accessToken}
	if len(accountIDs) > 0 {
		request.Options = &accountsGetOptions{AccountIDs: accountIDs}
	}

	var response AccountsResponse
	if err := c.post(ctx, endpointAccountsGet, &request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetBalances fetches current balances. minLastUpdated bounds how stale a
// cached upstream balance may be before the institution is asked again.
func (c *Client) GetBalances(ctx context.Context, accessToken string, accountIDs []string, minLastUpdated time.Time) (*AccountsResponse, error) {
	request := balanceGetRequest{AccessToken: accessToken}
	if len(accountIDs) > 0 || !minLastUpdated.IsZero() {
		options := &balanceGetOptions{AccountIDs: accountIDs}
		if !minLastUpdated.IsZero() {
			options.MinLastUpdatedDatetime = minLastUpdated.UTC().Format(time.RFC3339)
		}
		request.Options = options
	}

	var response AccountsResponse
	if err := c.post(ctx, endpointBalanceGet, &request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetInstitution looks up institution metadata by aggregator institution ID.
func (c *Client) GetInstitution(ctx context.Context, institutionID string) (*Institution, error) {
	request := institutionGetRequest{
		InstitutionID: institutionID,
		CountryCodes:  c.config.CountryCodes,
		Options:       &institutionGetOptions{IncludeOptionalMetadata: true},
	}

	var response institutionGetResponse
	if err := c.post(ctx, endpointInstitutionGet, &request, &response); err != nil {
		return nil, err
	}
	return &response.Institution, nil
}

// GetCategories lists the aggregator's transaction category taxonomy.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	var response categoriesGetResponse
	if err := c.post(ctx, endpointCategoriesGet, nil, &response); err != nil {
		return nil, err
	}
	return response.Categories, nil
}

// GetTransactions is the legacy ranged fetch. Dates are YYYY-MM-DD.
func (c *Client) GetTransactions(ctx context.Context, accessToken string, startDate, endDate string, accountIDs []string, count, offset int) (*TransactionsResponse, error) {
	request := transactionsGetRequest{
		AccessToken: accessToken,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if len(accountIDs) > 0 || count > 0 || offset > 0 {
		request.Options = &transactionsGetOptions{
			AccountIDs: accountIDs,
			Count:      count,
			Offset:     offset,
		}
	}

	var response TransactionsResponse
	if err := c.post(ctx, endpointTransactionsGet, &request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SyncTransactions fetches one page of incremental updates. An empty cursor
// starts from the beginning of history.
func (c *Client) SyncTransactions(ctx context.Context, accessToken string, cursor string) (*SyncResponse, error) {
	request := transactionsSyncRequest{
		AccessToken: accessToken,
		Cursor:      cursor,
	}

	var response SyncResponse
	if err := c.post(ctx, endpointTransactionsSync, &request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
