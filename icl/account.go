/*
Package icl hosts interest-bearing credit line accounts.

PURPOSE:
  The accrual package is a pure calculation engine; this package gives it a
  home. It defines the Account record a hosting application manages, the
  Statement produced for an account, persistence interfaces, and CSV codecs
  for moving transactions and ledgers in and out of the system.

KEY CONCEPTS:
  - Account:           A stored credit line (holder + terms)
  - StoredTransaction: A persisted cash movement belonging to an account
  - Statement:         The computed ledger plus closing totals
  - Store:             Persistence interface (sqlite and memory backends)

SEE ALSO:
  - statement.go:  Statement computation via the accrual engine
  - csv.go:        Ledger and transaction CSV codecs
  - store.go:      Persistence interface
  - store/memory.go, store/sqlite: Implementations
*/
package icl

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/accrual"
)

// =============================================================================
// ACCOUNT - A stored credit line
// =============================================================================

type Account struct {
	ID         uuid.UUID
	HolderName string
	Terms      accrual.AccountTerms
	CreatedAt  time.Time
}

// NewAccount creates an account with a fresh ID after validating terms.
func NewAccount(holderName string, terms accrual.AccountTerms) (*Account, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return &Account{
		ID:         uuid.New(),
		HolderName: holderName,
		Terms:      terms,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// =============================================================================
// STORED TRANSACTION - A persisted cash movement
// =============================================================================

type StoredTransaction struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Date         accrual.Date
	AmountPaid   decimal.Decimal
	AmountRepaid decimal.Decimal
	CreatedAt    time.Time
}

// Entry converts the stored record into the engine's input shape.
func (st StoredTransaction) Entry() accrual.Transaction {
	return accrual.Transaction{
		Date:         st.Date,
		AmountPaid:   st.AmountPaid,
		AmountRepaid: st.AmountRepaid,
	}
}

// Entries converts a batch of stored transactions for the engine.
func Entries(txs []StoredTransaction) []accrual.Transaction {
	out := make([]accrual.Transaction, 0, len(txs))
	for _, st := range txs {
		out = append(out, st.Entry())
	}
	return out
}
