package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"donationdesk/internal/donation/lifecycle"
	"donationdesk/internal/donation/models"
	"donationdesk/internal/donation/stats"
	dErrors "donationdesk/pkg/domain-errors"
	"donationdesk/pkg/requestcontext"
)

// DashboardView is the full dashboard payload: the summary plus the request
// snapshot it was computed from.
type DashboardView struct {
	Stats    stats.DashboardStats           `json:"stats"`
	Requests []*models.RequestWithRequester `json:"requests"`
}

// Dashboard fetches a fresh snapshot and aggregates it as of the request
// time. The view is stale the moment the store changes; the next page load
// refetches.
func (s *Service) Dashboard(ctx context.Context) (*DashboardView, error) {
	requests, err := s.store.ListRequests(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "requests not found")
	}
	return &DashboardView{
		Stats:    stats.Compute(requests, requestcontext.Now(ctx)),
		Requests: requests,
	}, nil
}

// ListRequests returns all requests with requesters embedded, newest first.
func (s *Service) ListRequests(ctx context.Context) ([]*models.RequestWithRequester, error) {
	requests, err := s.store.ListRequests(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "requests not found")
	}
	return requests, nil
}

// GetRequest returns one request with its requester embedded.
func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error) {
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "request not found")
	}
	return req, nil
}

// CreateRequestInput is a staff-entered donation request.
type CreateRequestInput struct {
	RequesterID     uuid.UUID `json:"requester_id"`
	Description     string    `json:"description"`
	RequestDate     string    `json:"request_date"`
	EventName       string    `json:"event_name"`
	EventDate       string    `json:"event_date"`
	AmountRequested *float64  `json:"amount_requested"`
	DonationType    string    `json:"donation_type"`
	Notes           string    `json:"notes"`
}

// CreateRequest records a staff-entered request in status "new".
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.DonationRequest, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "description is required")
	}
	if in.RequesterID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "requester is required")
	}
	if err := requireNonNegative(in.AmountRequested, "amount requested"); err != nil {
		return nil, err
	}
	donationType, err := models.ParseDonationType(in.DonationType)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetRequester(ctx, in.RequesterID); err != nil {
		return nil, wrapStoreErr(err, "requester not found")
	}

	now := requestcontext.Now(ctx)
	requestDate := now
	if in.RequestDate != "" {
		parsed, err := parseDate(in.RequestDate)
		if err != nil {
			return nil, err
		}
		requestDate = parsed
	}

	req := &models.DonationRequest{
		ID:              uuid.New(),
		RequesterID:     in.RequesterID,
		Description:     in.Description,
		RequestDate:     requestDate,
		EventName:       strings.TrimSpace(in.EventName),
		EventDate:       strings.TrimSpace(in.EventDate),
		AmountRequested: in.AmountRequested,
		DonationType:    donationType,
		Status:          models.StatusNew,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, wrapStoreErr(err, "request not found")
	}
	s.incRequestsCreated()
	return req, nil
}

// UpdateRequestInput carries the full editable field set; the detail view
// saves every field on each edit, so there is no partial-update mode.
type UpdateRequestInput struct {
	Status          string   `json:"status"`
	Description     string   `json:"description"`
	EventName       string   `json:"event_name"`
	EventDate       string   `json:"event_date"`
	AmountRequested *float64 `json:"amount_requested"`
	AmountApproved  *float64 `json:"amount_approved"`
	DonationType    string   `json:"donation_type"`
	Notes           string   `json:"notes"`
	InternalNotes   string   `json:"internal_notes"`
}

// UpdateRequest saves a staff edit, stamping reviewed/fulfilled timestamps
// per the lifecycle rules. Last write wins; there is no concurrency token.
func (s *Service) UpdateRequest(ctx context.Context, id uuid.UUID, in UpdateRequestInput) (*models.RequestWithRequester, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "description is required")
	}
	if err := requireNonNegative(in.AmountRequested, "amount requested"); err != nil {
		return nil, err
	}
	if err := requireNonNegative(in.AmountApproved, "amount approved"); err != nil {
		return nil, err
	}
	donationType, err := models.ParseDonationType(in.DonationType)
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "request not found")
	}

	now := requestcontext.Now(ctx)
	status, reviewedAt, fulfilledAt, err := lifecycle.Apply(&current.DonationRequest, in.Status, now)
	if err != nil {
		return nil, err
	}

	updated := current.DonationRequest
	updated.Status = status
	updated.ReviewedAt = reviewedAt
	updated.FulfilledAt = fulfilledAt
	updated.Description = in.Description
	updated.EventName = strings.TrimSpace(in.EventName)
	updated.EventDate = strings.TrimSpace(in.EventDate)
	updated.AmountRequested = in.AmountRequested
	updated.AmountApproved = in.AmountApproved
	updated.DonationType = donationType
	updated.Notes = strings.TrimSpace(in.Notes)
	updated.InternalNotes = strings.TrimSpace(in.InternalNotes)
	updated.UpdatedAt = now

	if err := s.store.UpdateRequest(ctx, &updated); err != nil {
		return nil, wrapStoreErr(err, "request not found")
	}
	return s.store.GetRequest(ctx, id)
}

// SetStatus is the quick-action path (approve, deny, mark fulfilled): the
// same lifecycle stamping with a fixed target status and no field edits.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*models.RequestWithRequester, error) {
	current, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "request not found")
	}

	now := requestcontext.Now(ctx)
	status, reviewedAt, fulfilledAt, err := lifecycle.Apply(&current.DonationRequest, rawStatus, now)
	if err != nil {
		return nil, err
	}

	updated := current.DonationRequest
	updated.Status = status
	updated.ReviewedAt = reviewedAt
	updated.FulfilledAt = fulfilledAt
	updated.UpdatedAt = now

	if err := s.store.UpdateRequest(ctx, &updated); err != nil {
		return nil, wrapStoreErr(err, "request not found")
	}
	return s.store.GetRequest(ctx, id)
}

// Approve marks a request approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error) {
	return s.SetStatus(ctx, id, string(models.StatusApproved))
}

// Deny marks a request denied.
func (s *Service) Deny(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error) {
	return s.SetStatus(ctx, id, string(models.StatusDenied))
}

// Fulfill marks a request fulfilled.
func (s *Service) Fulfill(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error) {
	return s.SetStatus(ctx, id, string(models.StatusFulfilled))
}

// DeleteRequest hard-deletes a request. Staff-only, irreversible.
func (s *Service) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteRequest(ctx, id); err != nil {
		return wrapStoreErr(err, "request not found")
	}
	return nil
}

func (s *Service) incRequestsCreated() {
	if s.metrics != nil {
		s.metrics.RequestsCreated.Inc()
	}
}
