/*
handlers.go - HTTP API handlers for the ICL interest engine

PURPOSE:
  Exposes account management and ledger computation via REST. Handles HTTP
  request/response and JSON serialization, and delegates everything else to
  the icl and accrual packages.

ENDPOINTS:
  Accounts:
    GET    /api/accounts                         List accounts
    POST   /api/accounts                         Open an account
    GET    /api/accounts/{id}                    Account details
    DELETE /api/accounts/{id}                    Delete account + transactions

  Transactions:
    GET    /api/accounts/{id}/transactions       List cash movements
    POST   /api/accounts/{id}/transactions       Record a cash movement

  Ledger:
    GET    /api/accounts/{id}/ledger             Computed statement (JSON)
    GET    /api/accounts/{id}/ledger.csv         Computed statement (CSV)

    Both accept ?as_of=YYYY-MM-DD. Without it, the server's current date is
    injected at this boundary; the engine itself never reads a clock, so a
    fixed as_of always reproduces the same ledger byte for byte.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, invalid terms
  - 404: Account not found
  - 422: Empty timeline (no transactions to ledger)
  - 500: Internal errors
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/interest-engine/accrual"
	"github.com/warp/interest-engine/icl"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store icl.Store

	// Now supplies the default as_of date. Overridable in tests.
	Now func() time.Time
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store icl.Store) *Handler {
	return &Handler{Store: store, Now: time.Now}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]AccountDTO, 0, len(accounts))
	for _, acct := range accounts {
		dtos = append(dtos, toAccountDTO(acct))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	terms, err := termsFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, err := icl.NewAccount(req.HolderName, terms)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Store.CreateAccount(r.Context(), acct); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(acct))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(acct))
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid account id"))
		return
	}
	if err := h.Store.DeleteAccount(r.Context(), id); err != nil {
		if errors.Is(err, icl.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	txs, err := h.Store.TransactionsForAccount(r.Context(), acct.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, toTransactionDTO(tx))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	var req AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	d, err := accrual.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid date %q: want YYYY-MM-DD", req.Date))
		return
	}
	paid, err := parseOptionalAmount(req.AmountPaid)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid amount_paid: %w", err))
		return
	}
	repaid, err := parseOptionalAmount(req.AmountRepaid)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid amount_repaid: %w", err))
		return
	}

	tx := icl.StoredTransaction{
		ID:           uuid.New(),
		AccountID:    acct.ID,
		Date:         d,
		AmountPaid:   paid,
		AmountRepaid: repaid,
		CreatedAt:    h.Now().UTC(),
	}
	if err := h.Store.AddTransaction(r.Context(), tx); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	st, ok := h.computeStatement(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toStatementDTO(st))
}

func (h *Handler) GetLedgerCSV(w http.ResponseWriter, r *http.Request) {
	st, ok := h.computeStatement(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "ledger-"+st.AccountID.String()+".csv"))
	if err := icl.WriteLedger(w, st.Rows); err != nil {
		log.Printf("writing ledger CSV: %v", err)
	}
}

func (h *Handler) computeStatement(w http.ResponseWriter, r *http.Request) (*icl.Statement, bool) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return nil, false
	}

	asOf := accrual.DateOf(h.Now())
	if s := r.URL.Query().Get("as_of"); s != "" {
		var err error
		asOf, err = accrual.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid as_of %q: want YYYY-MM-DD", s))
			return nil, false
		}
	}

	txs, err := h.Store.TransactionsForAccount(r.Context(), acct.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}

	st, err := icl.BuildStatement(acct, txs, asOf)
	switch {
	case errors.Is(err, accrual.ErrEmptyTimeline):
		// Legitimate "no activity yet" state, but distinguishable from a
		// computed empty ledger.
		writeError(w, http.StatusUnprocessableEntity, err)
		return nil, false
	case errors.Is(err, accrual.ErrInvalidTerms):
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return st, true
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadAccount(w http.ResponseWriter, r *http.Request) (*icl.Account, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid account id"))
		return nil, false
	}

	acct, err := h.Store.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, icl.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, err)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return acct, true
}

func termsFromRequest(req CreateAccountRequest) (accrual.AccountTerms, error) {
	start, err := accrual.ParseDate(req.StartDate)
	if err != nil {
		return accrual.AccountTerms{}, fmt.Errorf("invalid start_date %q: want YYYY-MM-DD", req.StartDate)
	}
	rate, err := decimal.NewFromString(req.AnnualRate)
	if err != nil {
		return accrual.AccountTerms{}, fmt.Errorf("invalid annual_rate %q", req.AnnualRate)
	}
	tds := decimal.Zero
	if req.TDSRate != "" {
		tds, err = decimal.NewFromString(req.TDSRate)
		if err != nil {
			return accrual.AccountTerms{}, fmt.Errorf("invalid tds_rate %q", req.TDSRate)
		}
	}

	terms := accrual.AccountTerms{
		StartDate:  start,
		AnnualRate: rate,
		TDSRate:    tds,
		Method:     accrual.InterestMethod(req.Method),
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := accrual.ParseDate(*req.EndDate)
		if err != nil {
			return accrual.AccountTerms{}, fmt.Errorf("invalid end_date %q: want YYYY-MM-DD", *req.EndDate)
		}
		terms.EndDate = &end
	}
	return terms, nil
}

func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must be non-negative")
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
