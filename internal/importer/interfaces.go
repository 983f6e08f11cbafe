package importer

import (
	"context"
	"time"

	"actual-importer/internal/domain"
)

// Source defines the interface for the finance-tracking service transactions
// are fetched from. This interface enables mocking and testing of source
// operations.
type Source interface {
	// ListTransactions returns the raw transactions for the inclusive date
	// window, in source-defined order.
	ListTransactions(ctx context.Context, start, end time.Time) ([]domain.RawTransaction, error)

	// ListAccounts returns all accounts known to the source system.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// Destination defines the interface for the budget server transactions are
// imported into.
type Destination interface {
	// ListAccounts returns all accounts in the budget.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// HasTransaction reports whether a transaction with this external ID
	// was already imported.
	HasTransaction(ctx context.Context, externalID string) (bool, error)

	// CreateTransaction creates one normalized transaction in the budget.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
}
