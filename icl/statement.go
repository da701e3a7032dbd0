package icl

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/accrual"
)

// =============================================================================
// STATEMENT - Computed ledger plus closing totals
// =============================================================================

// Statement is what a hosting application renders for an account: the full
// ledger and the totals a reader wants at the bottom of the page.
type Statement struct {
	AccountID uuid.UUID
	AsOf      accrual.Date
	Rows      []accrual.LedgerRow

	ClosingPrincipal      decimal.Decimal
	TotalGrossInterest    decimal.Decimal
	TotalTDS              decimal.Decimal
	TotalNetInterest      decimal.Decimal
	UncapitalizedInterest decimal.Decimal

	// WarningCount is the number of flagged rows (e.g. negative principal).
	WarningCount int
}

// BuildStatement runs the accrual engine for an account and totals the
// result. asOf is the caller's current date; it only matters when the
// account has no end date.
func BuildStatement(acct *Account, txs []StoredTransaction, asOf accrual.Date) (*Statement, error) {
	rows, err := accrual.Compute(acct.Terms, Entries(txs), asOf)
	if err != nil {
		return nil, err
	}

	st := &Statement{
		AccountID:             acct.ID,
		AsOf:                  asOf,
		Rows:                  rows,
		ClosingPrincipal:      decimal.Zero,
		TotalGrossInterest:    decimal.Zero,
		TotalTDS:              decimal.Zero,
		TotalNetInterest:      decimal.Zero,
		UncapitalizedInterest: decimal.Zero,
	}

	for _, r := range rows {
		st.TotalGrossInterest = st.TotalGrossInterest.Add(r.GrossInterest)
		st.TotalTDS = st.TotalTDS.Add(r.TDS)
		st.TotalNetInterest = st.TotalNetInterest.Add(r.NetInterest)
		if len(r.Warnings) > 0 {
			st.WarningCount++
		}
	}

	last := rows[len(rows)-1]
	st.ClosingPrincipal = last.Principal
	st.UncapitalizedInterest = last.CumulativeNetInterest
	return st, nil
}
