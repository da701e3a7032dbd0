package accrual

import (
	"sort"
)

// =============================================================================
// TIMELINE BUILDER - Merge transaction dates with quarter-end boundaries
// =============================================================================

// EligibleTransactions returns the transactions the ledger covers:
// entries strictly after the end date are excluded. Entries before the
// start date are retained; they may represent pre-existing disbursement.
func EligibleTransactions(terms AccountTerms, txs []Transaction) []Transaction {
	var out []Transaction
	for _, tx := range txs {
		if terms.EndDate != nil && tx.Date.After(*terms.EndDate) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Horizon returns the last date the ledger covers: the end date when set,
// otherwise the caller-supplied asOf date. The engine never reads a clock;
// asOf is always injected.
func Horizon(terms AccountTerms, asOf Date) Date {
	if terms.EndDate != nil {
		return terms.EndDate.Normalized()
	}
	return asOf.Normalized()
}

// BuildTimeline merges eligible transaction dates with every quarter-end
// boundary between the first transaction and the horizon, deduplicated and
// sorted ascending. The horizon itself joins the timeline when an end date
// is set, forcing a final accrual row even off-boundary.
//
// Returns EmptyTimelineError when no transactions survive filtering.
func BuildTimeline(terms AccountTerms, txs []Transaction, asOf Date) ([]Date, error) {
	horizon := Horizon(terms, asOf)

	eligible := EligibleTransactions(terms, txs)
	if len(eligible) == 0 {
		return nil, &EmptyTimelineError{Horizon: horizon}
	}

	seen := make(map[Date]bool)
	first := eligible[0].Date.Normalized()
	for _, tx := range eligible {
		d := tx.Date.Normalized()
		seen[d] = true
		if d.Before(first) {
			first = d
		}
	}

	// Every quarter end B with first <= B <= horizon.
	for b := QuarterEnd(first); b.BeforeOrEqual(horizon); b = NextQuarterEnd(b) {
		seen[b] = true
	}

	if terms.EndDate != nil {
		seen[horizon] = true
	}

	events := make([]Date, 0, len(seen))
	for d := range seen {
		events = append(events, d)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Before(events[j]) })
	return events, nil
}
