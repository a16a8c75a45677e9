package plaid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		ClientID: "client-id",
		Secret:   "secret",
		BaseURL:  baseURL,
	}, nil)
}

func TestClient_RelaysEnvelopeWithCredentialHeaders(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	var gotEnvelope relayEnvelope

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEnvelope))
		_ = json.NewEncoder(w).Encode(LinkToken{
			LinkToken:  "link-sandbox-token",
			Expiration: "2026-01-02T15:04:05Z",
			RequestID:  "req-1",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	token, err := client.CreateLinkToken(context.Background(), "user-1", "")
	require.NoError(t, err)

	assert.Equal(t, "/link/token/create", gotPath)
	assert.Equal(t, "client-id", gotHeaders.Get("PLAID-CLIENT-ID"))
	assert.Equal(t, "secret", gotHeaders.Get("PLAID-SECRET"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))

	assert.Equal(t, "/link/token/create", gotEnvelope.Endpoint)
	var inner linkTokenCreateRequest
	require.NoError(t, json.Unmarshal(gotEnvelope.Data, &inner))
	assert.Equal(t, "user-1", inner.User.ClientUserID)
	assert.NotEmpty(t, inner.ClientName)
	assert.NotEmpty(t, inner.Products)

	assert.Equal(t, "link-sandbox-token", token.LinkToken)
}

func TestClient_RejectsUnknownEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should never reach the server")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.post(context.Background(), "/sandbox/item/fire_webhook", nil, nil)
	require.Error(t, err)

	class, ok := ClassOf(err)
	require.True(t, ok)
	assert.Equal(t, ClassInvalidRequest, class)
}

func TestClient_ClassifiesLoginRequiredAsAuthExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(apiError{
			ErrorType:    "ITEM_ERROR",
			ErrorCode:    "ITEM_LOGIN_REQUIRED",
			ErrorMessage: "the login details of this item have changed",
			RequestID:    "req-2",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SyncTransactions(context.Background(), "access-token", "")
	require.Error(t, err)

	class, ok := ClassOf(err)
	require.True(t, ok)
	assert.Equal(t, ClassAuthExpired, class)

	var typed *Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "ITEM_LOGIN_REQUIRED", typed.ErrorCode)
	assert.Equal(t, "req-2", typed.RequestID)
}

func TestClient_ClassifiesRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(apiError{
			ErrorType:    "RATE_LIMIT_EXCEEDED",
			ErrorCode:    "TRANSACTIONS_LIMIT",
			ErrorMessage: "rate limit exceeded",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetAccounts(context.Background(), "access-token", nil)
	require.Error(t, err)

	class, ok := ClassOf(err)
	require.True(t, ok)
	assert.Equal(t, ClassRateLimited, class)
}

func TestClient_ClassifiesInvalidPublicToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(apiError{
			ErrorType:    "INVALID_INPUT",
			ErrorCode:    "INVALID_PUBLIC_TOKEN",
			ErrorMessage: "provided public token is expired",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ExchangePublicToken(context.Background(), "public-expired")
	require.Error(t, err)

	class, ok := ClassOf(err)
	require.True(t, ok)
	assert.Equal(t, ClassInvalidRequest, class)
}

func TestClient_NonJSONErrorBodyIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetCategories(context.Background())
	require.Error(t, err)

	class, ok := ClassOf(err)
	require.True(t, ok)
	assert.Equal(t, ClassUpstreamError, class)
}

func TestClient_UnreachableServerIsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetCategories(context.Background())
	require.Error(t, err)

	class, ok := ClassOf(err)
	require.True(t, ok)
	assert.Equal(t, ClassNetworkFailure, class)
}

func TestClient_SyncTransactionsDecodesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope relayEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		assert.Equal(t, "/transactions/sync", envelope.Endpoint)

		var inner transactionsSyncRequest
		require.NoError(t, json.Unmarshal(envelope.Data, &inner))
		assert.Equal(t, "cursor-1", inner.Cursor)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"added": []map[string]interface{}{
				{"transaction_id": "tx-1", "account_id": "acct-1", "amount": 12.5, "name": "Coffee", "date": "2026-08-01"},
			},
			"modified":    []map[string]interface{}{},
			"removed":     []map[string]string{{"transaction_id": "tx-0"}},
			"next_cursor": "cursor-2",
			"has_more":    true,
			"request_id":  "req-3",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.SyncTransactions(context.Background(), "access-token", "cursor-1")
	require.NoError(t, err)

	require.Len(t, page.Added, 1)
	assert.Equal(t, "tx-1", page.Added[0].TransactionID)
	assert.Equal(t, "12.5", page.Added[0].Amount.String())
	require.Len(t, page.Removed, 1)
	assert.Equal(t, "tx-0", page.Removed[0].TransactionID)
	assert.Equal(t, "cursor-2", page.NextCursor)
	assert.True(t, page.HasMore)
}
