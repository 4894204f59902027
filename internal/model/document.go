package model

import "time"

// Document is a file submitted by a user for review.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	FileURL   string    `json:"fileUrl"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// OwnerEmail is filled in for admin listings only.
	OwnerEmail string `json:"ownerEmail,omitempty"`
}
