package item

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/plaid"
	storageitem "github.com/carson-networks/link-server/internal/storage/item"
	"github.com/carson-networks/link-server/internal/syncer"
)

// SyncItemInput is the Huma input for running a sync cycle.
type SyncItemInput struct {
	ID string `path:"id" doc:"Item UUID"`
}

// SyncItemResponseBody summarizes the completed sync cycle.
type SyncItemResponseBody struct {
	Added    int    `json:"added" doc:"Transactions inserted"`
	Modified int    `json:"modified" doc:"Transactions overwritten in place"`
	Removed  int    `json:"removed" doc:"Transactions deleted"`
	Cursor   string `json:"cursor" doc:"Committed sync cursor after the cycle"`
}

// SyncItemOutput is the Huma output for running a sync cycle.
type SyncItemOutput struct {
	Body SyncItemResponseBody
}

// itemSyncer is the slice of the sync engine this handler needs.
type itemSyncer interface {
	SyncItem(ctx context.Context, itemID uuid.UUID) (*syncer.Result, error)
}

// SyncItemHandler handles POST /v1/items/{id}/sync.
type SyncItemHandler struct {
	Syncer itemSyncer
}

// NewSyncItemHandler creates a new SyncItemHandler.
func NewSyncItemHandler(engine itemSyncer) *SyncItemHandler {
	return &SyncItemHandler{Syncer: engine}
}

// Register registers the sync endpoint with the Huma API.
func (h *SyncItemHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "sync-item",
		Method:      http.MethodPost,
		Path:        "/v1/items/{id}/sync",
		Summary:     "Sync item",
		Description: "Runs one incremental sync cycle for the item's transactions and balances.",
		Tags:        []string{"Items"},
	}, h.handle)
}

func (h *SyncItemHandler) handle(ctx context.Context, input *SyncItemInput) (*SyncItemOutput, error) {
	itemID, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid item id", err)
	}

	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("syncItemMs")
	}
	result, err := h.Syncer.SyncItem(ctx, itemID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		switch {
		case errors.Is(err, storageitem.ErrNotFound):
			return nil, huma.NewError(http.StatusNotFound, "item not found", err)
		case errors.Is(err, syncer.ErrSyncInProgress):
			return nil, huma.NewError(http.StatusConflict, "sync already in progress", err)
		case errors.Is(err, syncer.ErrAuthExpired):
			return nil, huma.NewError(http.StatusUnauthorized, "credential expired, re-link required", err)
		case errors.Is(err, syncer.ErrItemRevoked):
			return nil, huma.NewError(http.StatusGone, "item revoked", err)
		case errors.Is(err, syncer.ErrSyncFailed):
			return nil, huma.NewError(http.StatusBadGateway, "sync failed after retries", err)
		default:
			return nil, h.classifyRemaining(err)
		}
	}

	if logData != nil {
		logData.AddData("added", result.Added)
		logData.AddData("modified", result.Modified)
		logData.AddData("removed", result.Removed)
	}

	return &SyncItemOutput{
		Body: SyncItemResponseBody{
			Added:    result.Added,
			Modified: result.Modified,
			Removed:  result.Removed,
			Cursor:   result.NextCursor,
		},
	}, nil
}

func (h *SyncItemHandler) classifyRemaining(err error) error {
	if class, ok := plaid.ClassOf(err); ok {
		switch class {
		case plaid.ClassRateLimited:
			return huma.NewError(http.StatusTooManyRequests, "aggregator rate limit, retry later", err)
		case plaid.ClassInvalidRequest:
			return huma.NewError(http.StatusBadRequest, "rejected by aggregator", err)
		}
	}
	return huma.NewError(http.StatusInternalServerError, "failed to sync item", err)
}
