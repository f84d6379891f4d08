package dto

// CreateLoanRequest is the body of POST /api/loans. Fields are left loosely
// typed so the service can report missing values rather than decode errors.
type CreateLoanRequest struct {
	Name    any `json:"name"`
	Email   any `json:"email"`
	Product any `json:"product"`
	Amount  any `json:"amount"`
	Term    any `json:"term"`
	Notes   any `json:"notes,omitempty"`
}
