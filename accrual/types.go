/*
Package accrual computes loan interest ledgers.

PURPOSE:
  Given the terms of an interest-bearing credit line (ICL) and its cash
  movements, this package produces a complete, auditable ledger of principal,
  interest, tax-deducted-at-source (TDS) and cumulative-interest balances
  over time. It handles simple vs. compound interest, quarterly compounding
  boundaries, leap-year day counts and optional loan closure.

KEY CONCEPTS IN THIS FILE (types.go):
  - AccountTerms: Immutable terms of the credit line (rates, dates, method)
  - Transaction:  A single cash movement (deposit or repayment)
  - LedgerRow:    One line of the computed statement
  - Warning:      Non-fatal per-row anomaly flag

DESIGN PRINCIPLES:
  1. Purity: The engine is a function over immutable inputs. No clock reads,
     no I/O, no state between calls. Identical inputs → identical ledger.
  2. Precision: Uses decimal.Decimal for all money and rate arithmetic.
  3. Honesty: Anomalies (over-repayment, zero-amount entries, duplicate
     dates) are absorbed and reflected in the ledger, never silently dropped.

USAGE:
  terms := accrual.AccountTerms{
      StartDate:  accrual.NewDate(2023, time.April, 1),
      AnnualRate: decimal.NewFromInt(12),
      TDSRate:    decimal.NewFromInt(10),
      Method:     accrual.MethodCompound,
  }
  rows, err := accrual.Compute(terms, txs, asOf)

SEE ALSO:
  - timeline.go: Event sequence construction
  - engine.go:   The forward accrual pass
  - policy.go:   Quarterly capitalization decision
*/
package accrual

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCOUNT TERMS - Immutable per calculation
// =============================================================================

// InterestMethod selects how accrued interest is treated at quarter ends.
type InterestMethod string

const (
	// MethodSimple keeps net interest as a separate running total.
	MethodSimple InterestMethod = "simple"

	// MethodCompound folds net interest into principal at each quarter end.
	MethodCompound InterestMethod = "compound"
)

// AccountTerms describes an interest-bearing credit line.
// The compounding boundary is fixed at calendar-quarter ends
// (Mar 31 / Jun 30 / Sep 30 / Dec 31).
type AccountTerms struct {
	// StartDate is inclusive; interest accrues from this date onward.
	StartDate Date

	// EndDate is optional. When set, transactions strictly after it are
	// excluded and the ledger closes at it. When nil, the ledger runs
	// through the caller-supplied asOf date.
	EndDate *Date

	// AnnualRate is the simple-annual interest rate in percent. Non-negative.
	AnnualRate decimal.Decimal

	// TDSRate is the fraction of gross interest withheld at source,
	// in percent, within [0, 100].
	TDSRate decimal.Decimal

	Method InterestMethod
}

// =============================================================================
// TRANSACTION - A single cash movement
// =============================================================================

// Transaction records money moving in or out of the credit line.
// AmountPaid increases principal (a disbursement/deposit); AmountRepaid
// decreases it. Exactly one is expected to be positive, but the engine
// tolerates both being zero or both positive: the net effect is
// AmountPaid - AmountRepaid, and the entry is still ledgered for audit.
type Transaction struct {
	Date         Date
	AmountPaid   decimal.Decimal
	AmountRepaid decimal.Decimal
}

// Net returns AmountPaid - AmountRepaid.
func (tx Transaction) Net() decimal.Decimal {
	return tx.AmountPaid.Sub(tx.AmountRepaid)
}

// =============================================================================
// LEDGER ROW - Output of the engine, append-only
// =============================================================================

type RowKind string

const (
	RowDeposit         RowKind = "deposit"
	RowRepayment       RowKind = "repayment"
	RowInterestAccrual RowKind = "interest_accrual"
	RowCapitalization  RowKind = "capitalization"
)

// LedgerRow is one line of the computed statement. Rows are strictly
// non-decreasing by Date; rows sharing a date apply transaction effects
// before interest and capitalization effects.
type LedgerRow struct {
	Date        Date
	Kind        RowKind
	Description string

	// Zero unless Kind is RowDeposit or RowRepayment.
	AmountPaid   decimal.Decimal
	AmountRepaid decimal.Decimal

	// Principal is the outstanding balance immediately after this row.
	Principal decimal.Decimal

	// Zero unless Kind is RowInterestAccrual.
	GrossInterest decimal.Decimal
	TDS           decimal.Decimal
	NetInterest   decimal.Decimal

	// CumulativeNetInterest is the running uncapitalized interest total.
	// It resets to zero immediately after a capitalization row.
	CumulativeNetInterest decimal.Decimal

	// DaysInPeriod is the day count used for interest rows, zero otherwise.
	DaysInPeriod int

	// Warnings carries non-fatal anomalies attached to this row.
	Warnings []Warning
}

// =============================================================================
// WARNINGS - Non-fatal, per-row, informational
// =============================================================================

const (
	// WarnNegativePrincipal flags a repayment exceeding outstanding principal.
	// Not fatal: over-repayment may be an intentional correction entry.
	WarnNegativePrincipal = "negative_principal"
)

// Warning is attached to a ledger row and surfaced to the caller.
// It is never returned as an error.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string { return w.Code + ": " + w.Message }
