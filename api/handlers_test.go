package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/interest-engine/api"
	"github.com/warp/interest-engine/icl"
	"github.com/warp/interest-engine/icl/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := api.NewHandler(store.NewMemory())
	// Frozen clock so "default as_of" behavior is reproducible.
	h.Now = func() time.Time { return time.Date(2023, time.July, 1, 10, 30, 0, 0, time.UTC) }
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createAccount(t *testing.T, srv *httptest.Server) api.AccountDTO {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/accounts", api.CreateAccountRequest{
		HolderName: "A. Holder",
		StartDate:  "2023-04-01",
		AnnualRate: "12",
		TDSRate:    "10",
		Method:     "compound",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeJSON[api.AccountDTO](t, resp)
}

func addDeposit(t *testing.T, srv *httptest.Server, accountID, date, amount string) {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/accounts/"+accountID+"/transactions", api.AddTransactionRequest{
		Date:       date,
		AmountPaid: amount,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func TestAPI_CreateAndGetAccount(t *testing.T) {
	srv := newTestServer(t)
	created := createAccount(t, srv)

	resp, err := http.Get(srv.URL + "/api/accounts/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeJSON[api.AccountDTO](t, resp)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "2023-04-01", got.StartDate)
	assert.Equal(t, "compound", got.Method)
	assert.Nil(t, got.EndDate)
}

func TestAPI_CreateAccount_InvalidTerms(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/accounts", api.CreateAccountRequest{
		HolderName: "A. Holder",
		StartDate:  "2023-04-01",
		AnnualRate: "-3",
		Method:     "compound",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_GetAccount_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/accounts/3f2e7a9c-1111-2222-3333-444455556666")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// LEDGER
// =============================================================================

func TestAPI_Ledger_CanonicalQuarter(t *testing.T) {
	// GIVEN: An account with a single 100,000 deposit on its start date
	// WHEN: Fetching the ledger as of 2023-07-01
	// THEN: The statement carries the quarter-end accrual, the
	//       capitalization and the closing stub

	srv := newTestServer(t)
	acct := createAccount(t, srv)
	addDeposit(t, srv, acct.ID, "2023-04-01", "100000")

	resp, err := http.Get(srv.URL + "/api/accounts/" + acct.ID + "/ledger?as_of=2023-07-01")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	st := decodeJSON[api.StatementDTO](t, resp)
	require.Len(t, st.Rows, 4)
	assert.Equal(t, "2023-07-01", st.AsOf)
	assert.Equal(t, "102692.60", st.ClosingPrincipal)
	assert.Equal(t, "30.38", st.UncapitalizedInterest)

	assert.Equal(t, "deposit", st.Rows[0].Kind)
	assert.Equal(t, "interest_accrual", st.Rows[1].Kind)
	assert.Equal(t, "2023-06-30", st.Rows[1].Date)
	assert.Equal(t, 91, st.Rows[1].DaysInPeriod)
	assert.Equal(t, "2991.78", st.Rows[1].GrossInterest)
	assert.Equal(t, "capitalization", st.Rows[2].Kind)
}

func TestAPI_Ledger_DefaultAsOf_UsesInjectedClock(t *testing.T) {
	// The handler injects its clock at the boundary; the engine never reads
	// one. With the test clock frozen at 2023-07-01 the default ledger
	// matches the explicit as_of.

	srv := newTestServer(t)
	acct := createAccount(t, srv)
	addDeposit(t, srv, acct.ID, "2023-04-01", "100000")

	resp, err := http.Get(srv.URL + "/api/accounts/" + acct.ID + "/ledger")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	st := decodeJSON[api.StatementDTO](t, resp)
	assert.Equal(t, "2023-07-01", st.AsOf)
	assert.Equal(t, "102692.60", st.ClosingPrincipal)
}

func TestAPI_Ledger_BadAsOf(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)
	addDeposit(t, srv, acct.ID, "2023-04-01", "100000")

	resp, err := http.Get(srv.URL + "/api/accounts/" + acct.ID + "/ledger?as_of=01-07-2023")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Ledger_NoTransactions_Unprocessable(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	resp, err := http.Get(srv.URL + "/api/accounts/" + acct.ID + "/ledger")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeJSON[api.ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "nothing to ledger")
}

func TestAPI_LedgerCSV_Download(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)
	addDeposit(t, srv, acct.ID, "2023-04-01", "100000")

	resp, err := http.Get(srv.URL + "/api/accounts/" + acct.ID + "/ledger.csv?as_of=2023-07-01")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), icl.LedgerHeader))
	assert.Contains(t, string(body), "2991.78")
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestAPI_AddTransaction_Validation(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	resp := postJSON(t, srv.URL+"/api/accounts/"+acct.ID+"/transactions", api.AddTransactionRequest{
		Date:       "2023-04-01",
		AmountPaid: "-50",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ListTransactions(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)
	addDeposit(t, srv, acct.ID, "2023-04-01", "100000")
	addDeposit(t, srv, acct.ID, "2023-05-01", "500")

	resp, err := http.Get(srv.URL + "/api/accounts/" + acct.ID + "/transactions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	txs := decodeJSON[[]api.TransactionDTO](t, resp)
	require.Len(t, txs, 2)
	assert.Equal(t, "2023-04-01", txs[0].Date)
	assert.Equal(t, "100000.00", txs[0].AmountPaid)
}
