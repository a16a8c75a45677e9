package linker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/link-server/internal/events"
	"github.com/carson-networks/link-server/internal/operator/actions"
	"github.com/carson-networks/link-server/internal/plaid"
	"github.com/carson-networks/link-server/internal/storage/account"
	"github.com/carson-networks/link-server/internal/storage/item"
)

var (
	// ErrInvalidUser is returned for a malformed user reference.
	ErrInvalidUser = errors.New("linker: invalid user")
	// ErrUpstreamUnavailable is returned when the aggregator cannot be reached
	// to create a link token.
	ErrUpstreamUnavailable = errors.New("linker: aggregator unavailable")
	// ErrExchangeFailed is returned when the public token was expired, already
	// consumed, or rejected. Public tokens are single-use, so the link flow
	// must be restarted from the widget; nothing is retried.
	ErrExchangeFailed = errors.New("linker: public token exchange failed")
)

// aggregator is the slice of the aggregator client the linker needs.
type aggregator interface {
	CreateLinkToken(ctx context.Context, userID string, accessToken string) (*plaid.LinkToken, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.PublicTokenExchange, error)
	GetAccounts(ctx context.Context, accessToken string, accountIDs []string) (*plaid.AccountsResponse, error)
	GetInstitution(ctx context.Context, institutionID string) (*plaid.Institution, error)
	RemoveItem(ctx context.Context, accessToken string) error
}

// actionProcessor commits storage work through the operator queue.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// itemReader loads items for update-mode linking and post-save views.
type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
}

// LinkSession is the ephemeral state of a link handshake: the widget token
// and when the aggregator will stop accepting it. Sessions live only in
// process memory between creation and exchange.
type LinkSession struct {
	LinkToken  string
	Expiration time.Time
}

// LinkedItem is the non-secret view of a stored item returned to callers.
// It deliberately has no access token field.
type LinkedItem struct {
	ID              uuid.UUID
	UserID          string
	InstitutionID   string
	InstitutionName string
	Status          item.ItemStatus
	CreatedAt       time.Time
}

// Manager drives the one-time handshake that turns user consent into a
// durable credential.
type Manager struct {
	plaid  aggregator
	op     actionProcessor
	items  itemReader
	events *events.Bridge
}

func NewManager(aggregatorClient aggregator, op actionProcessor, items itemReader, bridge *events.Bridge) *Manager {
	return &Manager{
		plaid:  aggregatorClient,
		op:     op,
		items:  items,
		events: bridge,
	}
}

// CreateLinkSession requests an ephemeral link token scoped to the user.
// A non-nil updateItemID re-links an existing item in update mode, passing
// its current access token to the aggregator.
func (m *Manager) CreateLinkSession(ctx context.Context, userID string, updateItemID *uuid.UUID) (*LinkSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUser
	}

	accessToken := ""
	if updateItemID != nil {
		existing, err := m.items.FindByID(ctx, *updateItemID)
		if err != nil {
			return nil, err
		}
		if existing.UserID != userID {
			return nil, ErrInvalidUser
		}
		accessToken = existing.AccessToken
	}

	linkToken, err := m.plaid.CreateLinkToken(ctx, userID, accessToken)
	if err != nil {
		if class, ok := plaid.ClassOf(err); ok && class == plaid.ClassInvalidRequest {
			return nil, fmt.Errorf("%w: %w", ErrInvalidUser, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	expiration, err := time.Parse(time.RFC3339, linkToken.Expiration)
	if err != nil {
		return nil, fmt.Errorf("%w: bad expiration %q", ErrUpstreamUnavailable, linkToken.Expiration)
	}

	return &LinkSession{
		LinkToken:  linkToken.LinkToken,
		Expiration: expiration,
	}, nil
}

// CompleteLinkSession exchanges the widget's public token for a long-lived
// access token, fetches institution metadata, and persists the item with
// its initial account snapshots. On any exchange-side failure no item is
// created and the caller must restart the link flow.
func (m *Manager) CompleteLinkSession(ctx context.Context, userID string, publicToken string) (*LinkedItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUser
	}
	if strings.TrimSpace(publicToken) == "" {
		return nil, fmt.Errorf("%w: empty public token", ErrExchangeFailed)
	}

	exchange, err := m.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	accountsRes, err := m.plaid.GetAccounts(ctx, exchange.AccessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	institutionID := ""
	institutionName := ""
	if accountsRes.Item.InstitutionID != nil {
		institutionID = *accountsRes.Item.InstitutionID
		institution, err := m.plaid.GetInstitution(ctx, institutionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
		}
		institutionName = institution.Name
	}

	action := &actions.SaveItem{
		UserID:          userID,
		PlaidItemID:     exchange.ItemID,
		AccessToken:     exchange.AccessToken,
		InstitutionID:   institutionID,
		InstitutionName: institutionName,
		Accounts:        account.FromAggregator(accountsRes.Accounts, time.Now().UTC()),
	}
	if err := m.op.Process(ctx, action); err != nil {
		return nil, err
	}

	saved, err := m.items.FindByID(ctx, action.ItemID)
	if err != nil {
		return nil, err
	}

	view := &LinkedItem{
		ID:              saved.ID,
		UserID:          saved.UserID,
		InstitutionID:   saved.InstitutionID,
		InstitutionName: saved.InstitutionName,
		Status:          saved.Status,
		CreatedAt:       saved.CreatedAt,
	}

	if m.events != nil {
		m.events.Emit(events.EventItemLinked, view)
	}

	return view, nil
}

// Unlink invalidates the item's access token upstream and removes the item
// and everything under it from storage. An already-dead upstream credential
// does not block removal.
func (m *Manager) Unlink(ctx context.Context, userID string, itemID uuid.UUID) error {
	stored, err := m.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return ErrInvalidUser
	}

	if err := m.plaid.RemoveItem(ctx, stored.AccessToken); err != nil {
		if class, ok := plaid.ClassOf(err); !ok || class != plaid.ClassAuthExpired {
			return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
	}

	return m.op.Process(ctx, &actions.RemoveItem{ItemID: itemID})
}
