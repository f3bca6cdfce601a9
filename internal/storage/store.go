// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/smartsplit/smartsplit/internal/models"
)

// ErrNotFound reports that the requested receipt or split does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for receipt and split persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateReceipt persists a normalized receipt and returns with the
	// receipt's ID and CreatedAt fields populated. Item order is
	// preserved across a round trip.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt by ID, items in extraction order.
	// Returns ErrNotFound when no such receipt exists.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// SaveSplit persists a computed split for a receipt, replacing any
	// previous split of that receipt.
	SaveSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves the latest split for a receipt.
	// Returns ErrNotFound when the receipt has no split yet.
	GetSplit(ctx context.Context, receiptID string) (*models.Split, error)

	// Close releases any resources held by the store.
	Close() error
}
