package item

import (
	"time"
)

// Item is the API response model for a linked institution connection.
type Item struct {
	ID              string    `json:"id" doc:"Item UUID"`
	InstitutionID   string    `json:"institutionID" doc:"Aggregator institution ID"`
	InstitutionName string    `json:"institutionName" doc:"Institution display name"`
	Status          string    `json:"status" doc:"active, login_required or revoked"`
	HasSynced       bool      `json:"hasSynced" doc:"Whether at least one sync cycle has completed"`
	CreatedAt       time.Time `json:"createdAt" doc:"When the item was first linked"`
}
