// Package models defines the donation domain records: requesters (the
// organizations asking) and donation requests (the individual asks tracked
// through review).
package models

import (
	"time"

	"github.com/google/uuid"
)

// Requester is an organization or individual that submits donation requests.
type Requester struct {
	ID           uuid.UUID `json:"id"`
	OrgName      string    `json:"org_name"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Category     Category  `json:"category"`
	Address      string    `json:"address,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RequesterWithStats augments a requester with lifetime totals for the
// requester list and detail views.
type RequesterWithStats struct {
	Requester
	TotalRequests int     `json:"total_requests"`
	TotalDonated  float64 `json:"total_donated"`
}

// DonationRequest is a single ask from a requester, tracked through the
// review lifecycle. Amount and timestamp pointers are nil until set.
type DonationRequest struct {
	ID              uuid.UUID    `json:"id"`
	RequesterID     uuid.UUID    `json:"requester_id"`
	Description     string       `json:"description"`
	RequestDate     time.Time    `json:"request_date"`
	EventName       string       `json:"event_name,omitempty"`
	EventDate       string       `json:"event_date,omitempty"`
	AmountRequested *float64     `json:"amount_requested"`
	AmountApproved  *float64     `json:"amount_approved"`
	DonationType    DonationType `json:"donation_type"`
	Status          Status       `json:"status"`
	ReviewedAt      *time.Time   `json:"reviewed_at"`
	FulfilledAt     *time.Time   `json:"fulfilled_at"`
	Notes           string       `json:"notes,omitempty"`
	InternalNotes   string       `json:"internal_notes,omitempty"`
	EmailSentAt     *time.Time   `json:"email_sent_at"`
	EmailSubject    string       `json:"email_subject,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// RequestWithRequester is the join view served to the dashboard: a donation
// request with its owning requester embedded.
type RequestWithRequester struct {
	DonationRequest
	Requester Requester `json:"requester"`
}
