package icl_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/interest-engine/accrual"
	"github.com/warp/interest-engine/icl"
)

// =============================================================================
// TRANSACTIONS CSV
// =============================================================================

func TestReadTransactions_ParsesRows(t *testing.T) {
	in := strings.Join([]string{
		icl.TransactionsHeader,
		"2023-04-01,100000,",
		"2023-05-15,,2500.50",
		"2023-06-01,0,0",
	}, "\n")

	txs, err := icl.ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, accrual.NewDate(2023, time.April, 1), txs[0].Date)
	assert.True(t, dec("100000").Equal(txs[0].AmountPaid))
	assert.True(t, txs[0].AmountRepaid.IsZero())

	assert.True(t, dec("2500.50").Equal(txs[1].AmountRepaid))
	assert.True(t, txs[1].AmountPaid.IsZero())

	assert.True(t, txs[2].AmountPaid.IsZero())
	assert.True(t, txs[2].AmountRepaid.IsZero())
}

func TestReadTransactions_BadDate_ReportsRow(t *testing.T) {
	in := strings.Join([]string{
		icl.TransactionsHeader,
		"2023-04-01,100,",
		"15/05/2023,100,",
	}, "\n")

	txs, err := icl.ReadTransactions(strings.NewReader(in))
	assert.Nil(t, txs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestReadTransactions_NegativeAmount_Rejected(t *testing.T) {
	in := strings.Join([]string{
		icl.TransactionsHeader,
		"2023-04-01,-100,",
	}, "\n")

	_, err := icl.ReadTransactions(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount_paid")
}

func TestReadTransactions_EmptyInput(t *testing.T) {
	txs, err := icl.ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

// =============================================================================
// LEDGER CSV
// =============================================================================

func TestWriteLedger_RoundTripsTheCanonicalQuarter(t *testing.T) {
	// GIVEN: The computed single-deposit compound quarter
	// WHEN: Writing it as CSV
	// THEN: The output carries the header and the settled 2-decimal amounts

	terms := testTerms()
	rows, err := accrual.Compute(terms, []accrual.Transaction{
		{Date: accrual.NewDate(2023, time.April, 1), AmountPaid: dec("100000")},
	}, accrual.NewDate(2023, time.July, 1))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, icl.WriteLedger(&sb, rows))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 5) // header + 4 rows
	assert.Equal(t, icl.LedgerHeader, lines[0])
	assert.Equal(t, "2023-04-01,deposit,Funds deposited,100000.00,0.00,100000.00,0.00,0.00,0.00,0.00,0,", lines[1])
	assert.Equal(t, "2023-06-30,interest_accrual,Interest for 91 days,0.00,0.00,100000.00,2991.78,299.18,2692.60,2692.60,91,", lines[2])
	assert.Contains(t, lines[3], "capitalization")
	assert.Contains(t, lines[3], "102692.60")
	assert.Contains(t, lines[4], "Interest for 1 days")
}

func TestWriteLedger_FlagsWarnings(t *testing.T) {
	terms := testTerms()
	terms.Method = accrual.MethodSimple
	rows, err := accrual.Compute(terms, []accrual.Transaction{
		{Date: accrual.NewDate(2023, time.April, 1), AmountPaid: dec("1000")},
		{Date: accrual.NewDate(2023, time.May, 1), AmountRepaid: dec("2000")},
	}, accrual.NewDate(2023, time.May, 10))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, icl.WriteLedger(&sb, rows))
	assert.Contains(t, sb.String(), accrual.WarnNegativePrincipal)
}
