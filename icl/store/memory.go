// Package store provides an in-memory icl.Store for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/interest-engine/icl"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*icl.Account
	order        []uuid.UUID
	transactions map[uuid.UUID][]icl.StoredTransaction
}

func NewMemory() *Memory {
	return &Memory{
		accounts:     make(map[uuid.UUID]*icl.Account),
		transactions: make(map[uuid.UUID][]icl.StoredTransaction),
	}
}

func (m *Memory) CreateAccount(_ context.Context, acct *icl.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *acct
	m.accounts[acct.ID] = &cp
	m.order = append(m.order, acct.ID)
	return nil
}

func (m *Memory) GetAccount(_ context.Context, id uuid.UUID) (*icl.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.accounts[id]
	if !ok {
		return nil, icl.ErrAccountNotFound
	}
	cp := *acct
	return &cp, nil
}

func (m *Memory) ListAccounts(_ context.Context) ([]*icl.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*icl.Account, 0, len(m.order))
	for _, id := range m.order {
		if acct, ok := m.accounts[id]; ok {
			cp := *acct
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Memory) DeleteAccount(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[id]; !ok {
		return icl.ErrAccountNotFound
	}
	delete(m.accounts, id)
	delete(m.transactions, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) AddTransaction(_ context.Context, tx icl.StoredTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[tx.AccountID]; !ok {
		return icl.ErrAccountNotFound
	}

	txs := m.transactions[tx.AccountID]

	// Insert sorted by date, preserving insertion order within a day.
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].Date.After(tx.Date)
	})
	txs = append(txs, icl.StoredTransaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	m.transactions[tx.AccountID] = txs
	return nil
}

func (m *Memory) TransactionsForAccount(_ context.Context, accountID uuid.UUID) ([]icl.StoredTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.accounts[accountID]; !ok {
		return nil, icl.ErrAccountNotFound
	}
	result := make([]icl.StoredTransaction, len(m.transactions[accountID]))
	copy(result, m.transactions[accountID])
	return result, nil
}

func (m *Memory) Close() error { return nil }
