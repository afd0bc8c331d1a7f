// Package store persists the transaction list as one serialized blob under
// a single fixed key. There is no update-in-place and no partial write:
// every mutation is read-modify-write of the full list, so writes to one
// store instance must be serialized by the caller. Within a process the
// implementations take their own lock; multiple writer processes are not
// supported.
package store

import (
	"context"

	"github.com/spendwise-app/spendwise/internal/model"
)

// storageKey is the single fixed key the blob lives under. Changing the
// record shape requires external data migration; there is none built in.
const storageKey = "spendwise_transactions"

// Store is the persistence collaborator consumed by the HTTP layer.
// Implementations preserve insertion order and own no logic beyond
// get/set/delete of the full list.
type Store interface {
	// GetAll returns the stored list in insertion order. A corrupted blob
	// degrades to an empty list rather than an error; transaction history
	// is not safety-critical.
	GetAll(ctx context.Context) ([]model.Transaction, error)

	// SaveAll replaces the stored list wholesale.
	SaveAll(ctx context.Context, txns []model.Transaction) error

	// Add assigns identity to each proto-record, appends the batch, and
	// returns the created records.
	Add(ctx context.Context, protos []model.ProtoTransaction) ([]model.Transaction, error)

	// DeleteByID removes exactly one record. Returns TRANSACTION_NOT_FOUND
	// if no record has the id.
	DeleteByID(ctx context.Context, id string) error

	// Clear removes the entire collection atomically.
	Clear(ctx context.Context) error
}
