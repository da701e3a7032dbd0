/*
errors.go - Centralized error types for the accrual engine

PURPOSE:
  All engine error types in one place. Callers match with errors.Is/errors.As;
  hosting layers wrap these with transport-specific context.

ERROR CATEGORIES:
  1. Structural errors - malformed terms, detected eagerly (ErrInvalidTerms)
  2. Empty-input signals - no transactions to ledger (ErrEmptyTimeline)

  Data-shape anomalies that still permit a deterministic answer
  (over-repayment, duplicate dates, zero-amount entries) are NOT errors:
  they are absorbed into the ledger, with per-row Warnings where relevant.

USAGE:
  rows, err := accrual.Compute(terms, txs, asOf)
  if errors.Is(err, accrual.ErrEmptyTimeline) {
      // legitimate "no activity yet" state, not necessarily fatal
  }
*/
package accrual

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTerms is returned when account terms are malformed or out of
	// range. The whole calculation fails before any row is produced.
	ErrInvalidTerms = errors.New("invalid account terms")

	// ErrEmptyTimeline is returned when no transactions remain after
	// end-date filtering. Distinguishable from a successful empty result;
	// callers may treat it as a legitimate "no activity yet" state.
	ErrEmptyTimeline = errors.New("empty timeline")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidTermsError reports which field of the account terms is unusable.
type InvalidTermsError struct {
	Field  string
	Reason string
}

func (e *InvalidTermsError) Error() string {
	return fmt.Sprintf("invalid account terms: %s: %s", e.Field, e.Reason)
}

func (e *InvalidTermsError) Unwrap() error {
	return ErrInvalidTerms
}

// EmptyTimelineError reports that no ledger can be produced for the horizon.
type EmptyTimelineError struct {
	Horizon Date
}

func (e *EmptyTimelineError) Error() string {
	return fmt.Sprintf("no transactions on or before %s: nothing to ledger", e.Horizon)
}

func (e *EmptyTimelineError) Unwrap() error {
	return ErrEmptyTimeline
}
