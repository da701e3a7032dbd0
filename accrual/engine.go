/*
engine.go - The forward accrual pass

PURPOSE:
  Walks the event timeline once, maintaining running principal and
  uncapitalized net interest, and emits ledger rows: transaction effects,
  per-period interest accruals, and quarter-end capitalizations.

THE PASS:
  For each event date d, in order:
    1. Apply all transactions dated d (one Deposit/Repayment row, emitted
       even when the net change is zero, so every entry is auditable).
    2. If a period ended at d, accrue interest over it on the principal
       held through the period and emit an InterestAccrual row dated d.
    3. Ask the capitalization policy whether accrued interest folds into
       principal at d; if so, emit a Capitalization row and reset the
       cumulative total.
  After the last event the ledger closes with a fixed 1-day stub accrual,
  ending the statement without guessing a real future period.

DAY COUNT:
  Periods are counted inclusive of both endpoints (Apr 1 - Jun 30 is 91
  days); the closing stub is the degenerate single-day case. The interest
  fraction divides by the days in the period start's calendar year, so a
  period spanning a year boundary uses a single year's day count. That is a
  documented approximation, not a bug to quietly correct.

ROUNDING:
  Gross interest, TDS and net interest are settled to 2 decimal places per
  accrual, and net = gross - tds holds exactly at that precision.
*/
package accrual

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	oneHundred = decimal.NewFromInt(100)
)

// Validate checks account terms eagerly, before any row is produced.
func (t AccountTerms) Validate() error {
	if t.StartDate.IsZero() {
		return &InvalidTermsError{Field: "start_date", Reason: "missing"}
	}
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return &InvalidTermsError{Field: "end_date", Reason: "before start date"}
	}
	if t.AnnualRate.IsNegative() {
		return &InvalidTermsError{Field: "annual_rate", Reason: "negative"}
	}
	if t.TDSRate.IsNegative() {
		return &InvalidTermsError{Field: "tds_rate", Reason: "negative"}
	}
	if t.TDSRate.GreaterThan(oneHundred) {
		return &InvalidTermsError{Field: "tds_rate", Reason: "exceeds 100 percent"}
	}
	if t.Method != MethodSimple && t.Method != MethodCompound {
		return &InvalidTermsError{Field: "method", Reason: fmt.Sprintf("unknown interest method %q", t.Method)}
	}
	return nil
}

// Compute produces the full ledger for the given terms and transactions.
// asOf is the caller's "current date", used only when no end date is set.
// The calculation is pure: identical inputs yield an identical ledger.
func Compute(terms AccountTerms, txs []Transaction, asOf Date) ([]LedgerRow, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	events, err := BuildTimeline(terms, txs, asOf)
	if err != nil {
		return nil, err
	}

	byDate := make(map[Date][]Transaction)
	for _, tx := range EligibleTransactions(terms, txs) {
		d := tx.Date.Normalized()
		byDate[d] = append(byDate[d], tx)
	}

	var (
		rows       []LedgerRow
		principal  = decimal.Zero
		cumulative = decimal.Zero

		// Principal held through the period ending at the current event:
		// set after the previous event's transactions and capitalization.
		periodPrincipal = decimal.Zero
	)

	for i, d := range events {
		// 1. Transaction effects first. Same-date ties with a boundary
		// always apply cash movements before interest.
		if dayTxs, ok := byDate[d]; ok {
			row := applyTransactions(d, dayTxs, &principal)
			row.CumulativeNetInterest = cumulative
			rows = append(rows, row)
		}

		if i > 0 {
			// 2. Interest for the period that ended at d.
			prev := events[i-1]
			days := DaysBetween(prev, d) + 1
			row := accrueInterest(terms, d, periodPrincipal, days, prev.Year())
			row.Principal = principal
			cumulative = cumulative.Add(row.NetInterest)
			row.CumulativeNetInterest = cumulative
			rows = append(rows, row)

			// 3. Capitalization check at the boundary.
			if ShouldCapitalize(terms, d, cumulative) {
				principal = principal.Add(cumulative)
				rows = append(rows, LedgerRow{
					Date:        d,
					Kind:        RowCapitalization,
					Description: fmt.Sprintf("Interest of %s capitalized", cumulative.StringFixed(2)),
					Principal:   principal,
				})
				cumulative = decimal.Zero
			}
		}

		periodPrincipal = principal
	}

	// Closing stub: a fixed 1-day accrual after the final event. It never
	// re-capitalizes; the statement simply ends here.
	last := events[len(events)-1]
	stub := accrueInterest(terms, last, periodPrincipal, 1, last.Year())
	stub.Principal = principal
	cumulative = cumulative.Add(stub.NetInterest)
	stub.CumulativeNetInterest = cumulative
	rows = append(rows, stub)

	return rows, nil
}

// applyTransactions sums a date's cash movements into a single ledger row
// and adjusts the running principal. A deposit takes description precedence
// when both directions are present.
func applyTransactions(d Date, dayTxs []Transaction, principal *decimal.Decimal) LedgerRow {
	paid := decimal.Zero
	repaid := decimal.Zero
	for _, tx := range dayTxs {
		paid = paid.Add(tx.AmountPaid)
		repaid = repaid.Add(tx.AmountRepaid)
	}

	*principal = principal.Add(paid).Sub(repaid)

	kind := RowDeposit
	desc := "Funds deposited"
	if repaid.IsPositive() && !paid.IsPositive() {
		kind = RowRepayment
		desc = "Funds repaid"
	}

	row := LedgerRow{
		Date:         d,
		Kind:         kind,
		Description:  desc,
		AmountPaid:   paid,
		AmountRepaid: repaid,
		Principal:    *principal,
	}

	if principal.IsNegative() {
		row.Warnings = append(row.Warnings, Warning{
			Code: WarnNegativePrincipal,
			Message: fmt.Sprintf("repayment exceeds outstanding principal: balance %s on %s",
				principal.StringFixed(2), d),
		})
	}
	return row
}

// accrueInterest computes one period's interest row:
//
//	gross = principal * rate * days / (100 * daysInYear)
//	tds   = gross * tdsRate / 100
//	net   = gross - tds
func accrueInterest(terms AccountTerms, d Date, principal decimal.Decimal, days int, year int) LedgerRow {
	denom := oneHundred.Mul(decimal.NewFromInt(int64(DaysInYear(year))))
	gross := principal.
		Mul(terms.AnnualRate).
		Mul(decimal.NewFromInt(int64(days))).
		Div(denom).
		Round(2)
	tds := gross.Mul(terms.TDSRate).Div(oneHundred).Round(2)
	net := gross.Sub(tds)

	return LedgerRow{
		Date:          d,
		Kind:          RowInterestAccrual,
		Description:   fmt.Sprintf("Interest for %d days", days),
		GrossInterest: gross,
		TDS:           tds,
		NetInterest:   net,
		DaysInPeriod:  days,
	}
}
