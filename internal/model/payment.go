package model

import "time"

// Payment is a charge raised by a user, optionally tied to a checkout session.
type Payment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Amount        float64   `json:"amount"`
	Status        Status    `json:"status"`
	TransactionID string    `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// OwnerEmail is filled in for admin listings only.
	OwnerEmail string `json:"ownerEmail,omitempty"`
}
