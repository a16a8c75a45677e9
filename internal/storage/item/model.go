package item

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
)

// ErrNotFound is returned when no item matches the lookup.
var ErrNotFound = errors.New("item: not found")

// ItemStatus is the lifecycle state of a linked institution connection.
type ItemStatus string

const (
	StatusActive        ItemStatus = "active"
	StatusLoginRequired ItemStatus = "login_required"
	StatusRevoked       ItemStatus = "revoked"
)

// Item is one linked institution connection. AccessToken is secret material
// and stays inside the storage/linker/syncer boundary. Cursor is NULL until
// the first successful sync cycle commits.
type Item struct {
	ID              uuid.UUID      `db:"id"`
	UserID          string         `db:"user_id"`
	PlaidItemID     string         `db:"plaid_item_id"`
	AccessToken     string         `db:"access_token"`
	InstitutionID   string         `db:"institution_id"`
	InstitutionName string         `db:"institution_name"`
	Cursor          sql.NullString `db:"cursor"`
	Status          ItemStatus     `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
}

// ItemCreate is the input for persisting a completed link session.
type ItemCreate struct {
	UserID          string
	PlaidItemID     string
	AccessToken     string
	InstitutionID   string
	InstitutionName string
}

const table = "items"

var columns = []string{
	"id",
	"user_id",
	"plaid_item_id",
	"access_token",
	"institution_id",
	"institution_name",
	"cursor",
	"status",
	"created_at",
}
