package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the ledger has no transaction for the
	// signature yet. Callers may retry after propagation delay.
	ErrNotFound = errors.New("transaction_not_found")
	// ErrUnavailable means the lookup failed for transport reasons
	// after retries were exhausted.
	ErrUnavailable = errors.New("ledger_unavailable")
)

// Client looks up settlement transactions on the external ledger.
type Client interface {
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)
}
