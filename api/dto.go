/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary fields travel as strings ("2991.78") so clients never round
  through float64.
*/
package api

import (
	"github.com/warp/interest-engine/accrual"
	"github.com/warp/interest-engine/icl"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	ID         string  `json:"id"`
	HolderName string  `json:"holder_name"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	AnnualRate string  `json:"annual_rate"`
	TDSRate    string  `json:"tds_rate"`
	Method     string  `json:"method"`
	CreatedAt  string  `json:"created_at"`
}

// CreateAccountRequest is the request to open an account.
type CreateAccountRequest struct {
	HolderName string  `json:"holder_name"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	AnnualRate string  `json:"annual_rate"`
	TDSRate    string  `json:"tds_rate"`
	Method     string  `json:"method"`
}

// TransactionDTO represents a stored cash movement.
type TransactionDTO struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	Date         string `json:"date"`
	AmountPaid   string `json:"amount_paid"`
	AmountRepaid string `json:"amount_repaid"`
	CreatedAt    string `json:"created_at"`
}

// AddTransactionRequest records a cash movement against an account.
type AddTransactionRequest struct {
	Date         string `json:"date"`
	AmountPaid   string `json:"amount_paid,omitempty"`
	AmountRepaid string `json:"amount_repaid,omitempty"`
}

// LedgerRowDTO is one line of a computed statement.
type LedgerRowDTO struct {
	Date                  string   `json:"date"`
	Kind                  string   `json:"kind"`
	Description           string   `json:"description"`
	AmountPaid            string   `json:"amount_paid"`
	AmountRepaid          string   `json:"amount_repaid"`
	Principal             string   `json:"principal"`
	GrossInterest         string   `json:"gross_interest"`
	TDS                   string   `json:"tds"`
	NetInterest           string   `json:"net_interest"`
	CumulativeNetInterest string   `json:"cumulative_net_interest"`
	DaysInPeriod          int      `json:"days_in_period"`
	Warnings              []string `json:"warnings,omitempty"`
}

// StatementDTO wraps the computed ledger with its closing totals.
type StatementDTO struct {
	AccountID             string         `json:"account_id"`
	AsOf                  string         `json:"as_of"`
	Rows                  []LedgerRowDTO `json:"rows"`
	ClosingPrincipal      string         `json:"closing_principal"`
	TotalGrossInterest    string         `json:"total_gross_interest"`
	TotalTDS              string         `json:"total_tds"`
	TotalNetInterest      string         `json:"total_net_interest"`
	UncapitalizedInterest string         `json:"uncapitalized_interest"`
	WarningCount          int            `json:"warning_count"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toAccountDTO(acct *icl.Account) AccountDTO {
	dto := AccountDTO{
		ID:         acct.ID.String(),
		HolderName: acct.HolderName,
		StartDate:  acct.Terms.StartDate.String(),
		AnnualRate: acct.Terms.AnnualRate.String(),
		TDSRate:    acct.Terms.TDSRate.String(),
		Method:     string(acct.Terms.Method),
		CreatedAt:  acct.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if acct.Terms.EndDate != nil {
		end := acct.Terms.EndDate.String()
		dto.EndDate = &end
	}
	return dto
}

func toTransactionDTO(tx icl.StoredTransaction) TransactionDTO {
	return TransactionDTO{
		ID:           tx.ID.String(),
		AccountID:    tx.AccountID.String(),
		Date:         tx.Date.String(),
		AmountPaid:   tx.AmountPaid.StringFixed(2),
		AmountRepaid: tx.AmountRepaid.StringFixed(2),
		CreatedAt:    tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toLedgerRowDTO(r accrual.LedgerRow) LedgerRowDTO {
	dto := LedgerRowDTO{
		Date:                  r.Date.String(),
		Kind:                  string(r.Kind),
		Description:           r.Description,
		AmountPaid:            r.AmountPaid.StringFixed(2),
		AmountRepaid:          r.AmountRepaid.StringFixed(2),
		Principal:             r.Principal.StringFixed(2),
		GrossInterest:         r.GrossInterest.StringFixed(2),
		TDS:                   r.TDS.StringFixed(2),
		NetInterest:           r.NetInterest.StringFixed(2),
		CumulativeNetInterest: r.CumulativeNetInterest.StringFixed(2),
		DaysInPeriod:          r.DaysInPeriod,
	}
	for _, w := range r.Warnings {
		dto.Warnings = append(dto.Warnings, w.Code)
	}
	return dto
}

func toStatementDTO(st *icl.Statement) StatementDTO {
	rows := make([]LedgerRowDTO, 0, len(st.Rows))
	for _, r := range st.Rows {
		rows = append(rows, toLedgerRowDTO(r))
	}
	return StatementDTO{
		AccountID:             st.AccountID.String(),
		AsOf:                  st.AsOf.String(),
		Rows:                  rows,
		ClosingPrincipal:      st.ClosingPrincipal.StringFixed(2),
		TotalGrossInterest:    st.TotalGrossInterest.StringFixed(2),
		TotalTDS:              st.TotalTDS.StringFixed(2),
		TotalNetInterest:      st.TotalNetInterest.StringFixed(2),
		UncapitalizedInterest: st.UncapitalizedInterest.StringFixed(2),
		WarningCount:          st.WarningCount,
	}
}
