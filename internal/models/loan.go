package models

import (
	"time"
)

type LoanStatus string

const (
	LoanStatusPending LoanStatus = "Pending"
)

// LoanApplication is a customer's request to finance a marketplace product.
// Amount and Term keep whatever JSON scalar the client sent (number or string).
type LoanApplication struct {
	ID        int64      `firestore:"id" json:"id"`
	Name      string     `firestore:"name" json:"name"`
	Email     string     `firestore:"email" json:"email"`
	Product   string     `firestore:"product" json:"product"`
	Amount    any        `firestore:"amount" json:"amount"`
	Term      any        `firestore:"term" json:"term"`
	Notes     string     `firestore:"notes,omitempty" json:"notes,omitempty"`
	Status    LoanStatus `firestore:"status" json:"status"`
	CreatedAt time.Time  `firestore:"createdAt" json:"createdAt"`
}
