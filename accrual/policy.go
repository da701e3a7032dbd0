package accrual

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CAPITALIZATION POLICY - When accrued interest folds into principal
// =============================================================================

// ShouldCapitalize decides whether the net interest accrued so far folds
// into principal at the given event date.
//
// Simple accounts never capitalize: their cumulative net interest stays a
// separate running total for the life of the ledger. Compound accounts
// capitalize at quarter-end boundaries on or after the start date, provided
// there is positive accrued interest to realize. A quarter end that
// coincides with the account's end date still capitalizes: closing the
// account realizes accrued interest into principal for reporting.
func ShouldCapitalize(terms AccountTerms, at Date, accrued decimal.Decimal) bool {
	if terms.Method != MethodCompound {
		return false
	}
	if !IsQuarterEnd(at) {
		return false
	}
	if at.Before(terms.StartDate) {
		return false
	}
	return accrued.IsPositive()
}
