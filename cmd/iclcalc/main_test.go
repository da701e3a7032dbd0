package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTransactionsFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func runCompute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newComputeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompute_DefaultAsOf_UsesInjectedClock(t *testing.T) {
	// GIVEN: A single deposit and no --as-of flag, with the clock frozen
	//        at 2023-07-01
	// WHEN: Computing the ledger in CSV format
	// THEN: The output carries the quarter-end accrual and the capitalized
	//       principal for that horizon

	restore := timeNow
	timeNow = func() time.Time { return time.Date(2023, time.July, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = restore })

	path := writeTransactionsFile(t, "date,amount_paid,amount_repaid\n2023-04-01,100000,\n")

	out, err := runCompute(t,
		"--start", "2023-04-01",
		"--rate", "12",
		"--tds", "10",
		"--method", "compound",
		"--format", "csv",
		path,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "2991.78")
	assert.Contains(t, out, "102692.60")
	assert.Contains(t, out, "capitalization")
}

func TestCompute_ExplicitAsOf_IgnoresClock(t *testing.T) {
	// With --as-of set, the wall clock must not matter at all.

	restore := timeNow
	timeNow = func() time.Time { return time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = restore })

	path := writeTransactionsFile(t, "date,amount_paid,amount_repaid\n2023-04-01,100000,\n")

	out, err := runCompute(t,
		"--start", "2023-04-01",
		"--rate", "12",
		"--tds", "10",
		"--method", "compound",
		"--as-of", "2023-07-01",
		"--format", "csv",
		path,
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5) // header + deposit + accrual + capitalization + stub
	assert.Contains(t, out, "2991.78")
}

func TestCompute_InvalidTerms_FailsBeforeReadingFile(t *testing.T) {
	path := writeTransactionsFile(t, "date,amount_paid,amount_repaid\n2023-04-01,100000,\n")

	_, err := runCompute(t,
		"--start", "2023-04-01",
		"--rate", "-3",
		"--method", "simple",
		path,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annual_rate")
}
