/*
store.go - Persistence interface for accounts and their transactions

PURPOSE:
  Defines the boundary between the hosting application and the database.
  The engine itself never touches storage; the Store exists so the API and
  CLI can collect terms and cash movements, then hand plain records to the
  accrual package.

TRANSACTIONS ARE APPEND-ONLY:
  Cash movements are never updated or deleted. A mistaken entry is
  corrected by a counter-entry (the engine absorbs zero and opposing
  amounts and keeps the audit trail honest).

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - icl/store:    In-memory store for tests
*/
package icl

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrAccountNotFound is returned when the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// =============================================================================
// STORE - Accounts and their cash movements
// =============================================================================

type Store interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, acct *Account) error

	// GetAccount returns the account or ErrAccountNotFound.
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)

	// ListAccounts returns all accounts, oldest first.
	ListAccounts(ctx context.Context) ([]*Account, error)

	// DeleteAccount removes an account and its transactions.
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	// AddTransaction appends a cash movement to an account.
	// Returns ErrAccountNotFound if the account does not exist.
	AddTransaction(ctx context.Context, tx StoredTransaction) error

	// TransactionsForAccount returns an account's cash movements,
	// ordered by date then insertion.
	TransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]StoredTransaction, error)

	// Close releases underlying resources.
	Close() error
}
