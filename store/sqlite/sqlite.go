/*
Package sqlite provides a SQLite-backed implementation of icl.Store.

PURPOSE:
  Persists accounts and their cash movements. The accrual engine never
  reads from here directly; the hosting layers load plain records and hand
  them to the engine.

SCHEMA NOTES:
  Decimal fields are stored as TEXT so no precision is lost (SQLite REAL
  is a float64). Dates are stored as YYYY-MM-DD text.

  Transactions are append-only at the application level: there is no
  update statement for them, and corrections happen via counter-entries.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  st, err := sqlite.New("./data/icl.db")   // ":memory:" for tests
  if err != nil { ... }
  defer st.Close()

SEE ALSO:
  - icl/store.go: Interface definition
  - icl/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/interest-engine/accrual"
	"github.com/warp/interest-engine/icl"
)

// Store implements icl.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		holder_name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		annual_rate TEXT NOT NULL,
		tds_rate TEXT NOT NULL,
		method TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS account_transactions (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		tx_date TEXT NOT NULL,
		amount_paid TEXT NOT NULL,
		amount_repaid TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_account_date
		ON account_transactions(account_id, tx_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) CreateAccount(ctx context.Context, acct *icl.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endDate sql.NullString
	if acct.Terms.EndDate != nil {
		endDate = sql.NullString{String: acct.Terms.EndDate.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, holder_name, start_date, end_date, annual_rate, tds_rate, method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		acct.ID.String(),
		acct.HolderName,
		acct.Terms.StartDate.String(),
		endDate,
		acct.Terms.AnnualRate.String(),
		acct.Terms.TDSRate.String(),
		string(acct.Terms.Method),
		acct.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*icl.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, holder_name, start_date, end_date, annual_rate, tds_rate, method, created_at
		FROM accounts WHERE id = ?`, id.String())

	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, icl.ErrAccountNotFound
	}
	return acct, err
}

func (s *Store) ListAccounts(ctx context.Context) ([]*icl.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, holder_name, start_date, end_date, annual_rate, tds_rate, method, created_at
		FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*icl.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return icl.ErrAccountNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(sc scanner) (*icl.Account, error) {
	var (
		idStr, holder, startStr, rateStr, tdsStr, method, createdStr string
		endStr                                                       sql.NullString
	)
	if err := sc.Scan(&idStr, &holder, &startStr, &endStr, &rateStr, &tdsStr, &method, &createdStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("bad account id %q: %w", idStr, err)
	}
	start, err := accrual.ParseDate(startStr)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q: %w", startStr, err)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("bad annual rate %q: %w", rateStr, err)
	}
	tds, err := decimal.NewFromString(tdsStr)
	if err != nil {
		return nil, fmt.Errorf("bad tds rate %q: %w", tdsStr, err)
	}
	createdAt, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdStr, err)
	}

	terms := accrual.AccountTerms{
		StartDate:  start,
		AnnualRate: rate,
		TDSRate:    tds,
		Method:     accrual.InterestMethod(method),
	}
	if endStr.Valid {
		end, err := accrual.ParseDate(endStr.String)
		if err != nil {
			return nil, fmt.Errorf("bad end date %q: %w", endStr.String, err)
		}
		terms.EndDate = &end
	}

	return &icl.Account{
		ID:         id,
		HolderName: holder,
		Terms:      terms,
		CreatedAt:  createdAt,
	}, nil
}

// =============================================================================
// TRANSACTIONS - Append-only
// =============================================================================

func (s *Store) AddTransaction(ctx context.Context, tx icl.StoredTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accountExists(ctx, tx.AccountID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account_transactions (id, account_id, tx_date, amount_paid, amount_repaid, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID.String(),
		tx.AccountID.String(),
		tx.Date.String(),
		tx.AmountPaid.String(),
		tx.AmountRepaid.String(),
		tx.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (s *Store) TransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]icl.StoredTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.accountExists(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, tx_date, amount_paid, amount_repaid, created_at
		FROM account_transactions
		WHERE account_id = ?
		ORDER BY tx_date, created_at, id`, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	var txs []icl.StoredTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *Store) accountExists(ctx context.Context, id uuid.UUID) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accounts WHERE id = ?`, id.String()).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return icl.ErrAccountNotFound
	}
	return nil
}

func scanTransaction(sc scanner) (icl.StoredTransaction, error) {
	var idStr, acctStr, dateStr, paidStr, repaidStr, createdStr string
	if err := sc.Scan(&idStr, &acctStr, &dateStr, &paidStr, &repaidStr, &createdStr); err != nil {
		return icl.StoredTransaction{}, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return icl.StoredTransaction{}, fmt.Errorf("bad transaction id %q: %w", idStr, err)
	}
	acctID, err := uuid.Parse(acctStr)
	if err != nil {
		return icl.StoredTransaction{}, fmt.Errorf("bad account id %q: %w", acctStr, err)
	}
	d, err := accrual.ParseDate(dateStr)
	if err != nil {
		return icl.StoredTransaction{}, fmt.Errorf("bad tx date %q: %w", dateStr, err)
	}
	paid, err := decimal.NewFromString(paidStr)
	if err != nil {
		return icl.StoredTransaction{}, fmt.Errorf("bad amount_paid %q: %w", paidStr, err)
	}
	repaid, err := decimal.NewFromString(repaidStr)
	if err != nil {
		return icl.StoredTransaction{}, fmt.Errorf("bad amount_repaid %q: %w", repaidStr, err)
	}
	createdAt, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return icl.StoredTransaction{}, fmt.Errorf("bad created_at %q: %w", createdStr, err)
	}

	return icl.StoredTransaction{
		ID:           id,
		AccountID:    acctID,
		Date:         d,
		AmountPaid:   paid,
		AmountRepaid: repaid,
		CreatedAt:    createdAt,
	}, nil
}
