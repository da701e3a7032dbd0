package icl

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/interest-engine/accrual"
)

// =============================================================================
// TRANSACTIONS CSV - Input format for the CLI and bulk import
// =============================================================================

// TransactionsHeader is the CSV header for transaction files.
const TransactionsHeader = "date,amount_paid,amount_repaid"

const (
	txNumFields = 3
	txColDate   = 0
	txColPaid   = 1
	txColRepaid = 2
)

// ReadTransactions reads engine transactions from a CSV reader.
// The header row is required; empty amounts are treated as zero.
func ReadTransactions(r io.Reader) ([]accrual.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = txNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txs []accrual.Transaction
	for i, rec := range records[1:] {
		tx, err := unmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func unmarshalTransaction(rec []string) (accrual.Transaction, error) {
	d, err := accrual.ParseDate(strings.TrimSpace(rec[txColDate]))
	if err != nil {
		return accrual.Transaction{}, fmt.Errorf("date: %w", err)
	}
	paid, err := parseAmount(rec[txColPaid])
	if err != nil {
		return accrual.Transaction{}, fmt.Errorf("amount_paid: %w", err)
	}
	repaid, err := parseAmount(rec[txColRepaid])
	if err != nil {
		return accrual.Transaction{}, fmt.Errorf("amount_repaid: %w", err)
	}
	return accrual.Transaction{Date: d, AmountPaid: paid, AmountRepaid: repaid}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", s)
	}
	return d, nil
}

// =============================================================================
// LEDGER CSV - Output format for statements
// =============================================================================

// LedgerHeader is the CSV header for ledger exports.
const LedgerHeader = "date,kind,description,amount_paid,amount_repaid,principal,gross_interest,tds,net_interest,cumulative_net_interest,days_in_period,warnings"

// WriteLedger writes ledger rows to a CSV writer, including the header.
func WriteLedger(w io.Writer, rows []accrual.LedgerRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(LedgerHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(marshalLedgerRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func marshalLedgerRow(r accrual.LedgerRow) []string {
	warnings := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, w.Code)
	}
	return []string{
		r.Date.String(),
		string(r.Kind),
		r.Description,
		r.AmountPaid.StringFixed(2),
		r.AmountRepaid.StringFixed(2),
		r.Principal.StringFixed(2),
		r.GrossInterest.StringFixed(2),
		r.TDS.StringFixed(2),
		r.NetInterest.StringFixed(2),
		r.CumulativeNetInterest.StringFixed(2),
		strconv.Itoa(r.DaysInPeriod),
		strings.Join(warnings, ";"),
	}
}
