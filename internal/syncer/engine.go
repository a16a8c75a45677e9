package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/link-server/internal/events"
	"github.com/carson-networks/link-server/internal/operator/actions"
	"github.com/carson-networks/link-server/internal/plaid"
	"github.com/carson-networks/link-server/internal/storage/account"
	"github.com/carson-networks/link-server/internal/storage/item"
	"github.com/carson-networks/link-server/internal/storage/transaction"
)

var (
	// ErrSyncInProgress is returned when a sync cycle for the same item is
	// already in flight. Cycles per item are serialized to keep the cursor
	// race-free; the caller may retry once the running cycle finishes.
	ErrSyncInProgress = errors.New("syncer: sync already in progress for item")
	// ErrAuthExpired is returned when the aggregator rejects the item's
	// credential. The item is marked login_required and the user must
	// re-link; nothing is retried.
	ErrAuthExpired = errors.New("syncer: item credential expired")
	// ErrSyncFailed is returned after bounded retries of transient upstream
	// failures are exhausted.
	ErrSyncFailed = errors.New("syncer: sync failed")
	// ErrItemRevoked is returned for items the user has unlinked.
	ErrItemRevoked = errors.New("syncer: item revoked")
)

const defaultMaxRetries = 3

// aggregator is the slice of the aggregator client the engine needs.
type aggregator interface {
	SyncTransactions(ctx context.Context, accessToken string, cursor string) (*plaid.SyncResponse, error)
	GetBalances(ctx context.Context, accessToken string, accountIDs []string, minLastUpdated time.Time) (*plaid.AccountsResponse, error)
	GetTransactions(ctx context.Context, accessToken string, startDate, endDate string, accountIDs []string, count, offset int) (*plaid.TransactionsResponse, error)
}

// actionProcessor commits storage work through the operator queue.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// itemReader loads the item and its cursor at the start of a cycle.
type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
}

// Result summarizes one completed sync cycle across all of its pages.
type Result struct {
	Added      int
	Modified   int
	Removed    int
	NextCursor string
}

// SyncSummary is the payload of the sync.completed event.
type SyncSummary struct {
	ItemID   uuid.UUID
	UserID   string
	Added    int
	Modified int
	Removed  int
	Cursor   string
}

// Engine performs incremental transaction and balance synchronization for
// linked items. Cycles for distinct items run concurrently; cycles for the
// same item are rejected while one is in flight.
type Engine struct {
	plaid  aggregator
	op     actionProcessor
	items  itemReader
	events *events.Bridge
	logger *logrus.Logger

	maxRetries uint64
	newBackOff func() backoff.BackOff

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewEngine(aggregatorClient aggregator, op actionProcessor, items itemReader, bridge *events.Bridge, logger *logrus.Logger) *Engine {
	return &Engine{
		plaid:      aggregatorClient,
		op:         op,
		items:      items,
		events:     bridge,
		logger:     logger,
		maxRetries: defaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = 500 * time.Millisecond
			policy.MaxInterval = 10 * time.Second
			return policy
		},
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

func (e *Engine) acquire(itemID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, running := e.inFlight[itemID]; running {
		return false
	}
	e.inFlight[itemID] = struct{}{}
	return true
}

func (e *Engine) release(itemID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, itemID)
}

// retryUpstream runs call, retrying rate-limit and transient upstream
// failures with exponential backoff and jitter, bounded by maxRetries.
// Credential and caller errors are permanent.
func (e *Engine) retryUpstream(ctx context.Context, call func() error) error {
	operation := func() error {
		err := call()
		if err == nil {
			return nil
		}
		class, ok := plaid.ClassOf(err)
		if !ok {
			return backoff.Permanent(err)
		}
		switch class {
		case plaid.ClassRateLimited, plaid.ClassNetworkFailure, plaid.ClassUpstreamError:
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(e.newBackOff(), e.maxRetries), ctx)
	return backoff.Retry(operation, policy)
}

// SyncItem runs one full sync cycle for the item: pull every pending page
// of added/modified/removed transactions, commit each page atomically with
// its cursor, then refresh balances and emit sync.completed.
//
// A failed cycle never advances the cursor past its last committed page, so
// the next cycle resumes where this one stopped.
func (e *Engine) SyncItem(ctx context.Context, itemID uuid.UUID) (*Result, error) {
	if !e.acquire(itemID) {
		return nil, ErrSyncInProgress
	}
	defer e.release(itemID)

	stored, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if stored.Status == item.StatusRevoked {
		return nil, ErrItemRevoked
	}

	cursor := ""
	if stored.Cursor.Valid {
		cursor = stored.Cursor.String
	}

	result := &Result{NextCursor: cursor}

	for {
		var page *plaid.SyncResponse
		err := e.retryUpstream(ctx, func() error {
			var callErr error
			page, callErr = e.plaid.SyncTransactions(ctx, stored.AccessToken, cursor)
			return callErr
		})
		if err != nil {
			return nil, e.failCycle(ctx, stored, err)
		}

		removedIDs := make([]string, len(page.Removed))
		for i, removed := range page.Removed {
			removedIDs[i] = removed.TransactionID
		}

		batch := &actions.ApplySyncBatch{
			ItemID:     itemID,
			Added:      transaction.FromAggregator(page.Added),
			Modified:   transaction.FromAggregator(page.Modified),
			RemovedIDs: removedIDs,
			NextCursor: page.NextCursor,
		}
		if err := e.op.Process(ctx, batch); err != nil {
			// Storage failures surface unmodified; the cursor for this page
			// was never committed.
			return nil, err
		}

		result.Added += len(batch.Added)
		result.Modified += len(batch.Modified)
		result.Removed += len(removedIDs)
		result.NextCursor = page.NextCursor
		cursor = page.NextCursor

		if !page.HasMore {
			break
		}
	}

	if err := e.refreshBalances(ctx, stored); err != nil {
		// Transactions and cursor are already committed; stale balances fix
		// themselves on the next cycle.
		e.logger.WithError(err).WithField("itemID", itemID).Warn("Syncer.SyncItem.balanceRefresh")
	}

	if e.events != nil {
		e.events.Emit(events.EventSyncCompleted, SyncSummary{
			ItemID:   itemID,
			UserID:   stored.UserID,
			Added:    result.Added,
			Modified: result.Modified,
			Removed:  result.Removed,
			Cursor:   result.NextCursor,
		})
	}

	return result, nil
}

// RefreshBalances fetches current balances for the item and stores the
// snapshots. Used by the balances endpoint for an on-demand refresh.
func (e *Engine) RefreshBalances(ctx context.Context, itemID uuid.UUID) error {
	stored, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if stored.Status == item.StatusRevoked {
		return ErrItemRevoked
	}
	return e.refreshBalances(ctx, stored)
}

// FetchTransactionRange pulls transactions for a fixed date range straight
// from the aggregator without touching stored state. Nothing here writes; the
// sync cursor is the sole authority for the stored ledger.
func (e *Engine) FetchTransactionRange(ctx context.Context, itemID uuid.UUID, startDate, endDate string, count, offset int) (*plaid.TransactionsResponse, error) {
	stored, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if stored.Status == item.StatusRevoked {
		return nil, ErrItemRevoked
	}

	var fetched *plaid.TransactionsResponse
	err = e.retryUpstream(ctx, func() error {
		var callErr error
		fetched, callErr = e.plaid.GetTransactions(ctx, stored.AccessToken, startDate, endDate, nil, count, offset)
		return callErr
	})
	if err != nil {
		return nil, e.failCycle(ctx, stored, err)
	}
	return fetched, nil
}

func (e *Engine) refreshBalances(ctx context.Context, stored *item.Item) error {
	var balances *plaid.AccountsResponse
	err := e.retryUpstream(ctx, func() error {
		var callErr error
		balances, callErr = e.plaid.GetBalances(ctx, stored.AccessToken, nil, time.Time{})
		return callErr
	})
	if err != nil {
		return err
	}

	return e.op.Process(ctx, &actions.UpsertAccounts{
		ItemID:   stored.ID,
		Accounts: account.FromAggregator(balances.Accounts, time.Now().UTC()),
	})
}

// failCycle maps an exhausted or permanent upstream failure onto the
// engine's error surface, transitioning the item when its credential died.
func (e *Engine) failCycle(ctx context.Context, stored *item.Item, err error) error {
	class, ok := plaid.ClassOf(err)
	if !ok {
		return err
	}

	switch class {
	case plaid.ClassAuthExpired:
		mark := &actions.MarkItemStatus{ItemID: stored.ID, Status: item.StatusLoginRequired}
		if markErr := e.op.Process(ctx, mark); markErr != nil {
			e.logger.WithError(markErr).WithField("itemID", stored.ID).Error("Syncer.failCycle.markLoginRequired")
		}
		if e.events != nil {
			e.events.Emit(events.EventItemLoginRequired, SyncSummary{ItemID: stored.ID, UserID: stored.UserID})
		}
		return fmt.Errorf("%w: %w", ErrAuthExpired, err)
	case plaid.ClassRateLimited:
		return err
	case plaid.ClassInvalidRequest:
		return err
	default:
		return fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}
}
