package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"donationdesk/internal/donation/models"
	dErrors "donationdesk/pkg/domain-errors"
	"donationdesk/pkg/requestcontext"
)

// RequesterInput carries the staff-editable requester fields.
type RequesterInput struct {
	OrgName      string `json:"org_name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Category     string `json:"category"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

// RequesterDetail is the requester view: the record, its request history
// (newest first), and lifetime amount totals.
type RequesterDetail struct {
	Requester      models.Requester               `json:"requester"`
	Requests       []*models.RequestWithRequester `json:"requests"`
	TotalRequested float64                        `json:"total_requested"`
	TotalApproved  float64                        `json:"total_approved"`
}

// ListRequesters returns all requesters ordered by organization name, each
// with its lifetime request count and donated total.
func (s *Service) ListRequesters(ctx context.Context) ([]*models.RequesterWithStats, error) {
	requesters, err := s.store.ListRequesters(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "requesters not found")
	}
	requests, err := s.store.ListRequests(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "requests not found")
	}

	counts := make(map[uuid.UUID]int)
	donated := make(map[uuid.UUID]float64)
	for _, r := range requests {
		counts[r.RequesterID]++
		if r.AmountApproved != nil {
			donated[r.RequesterID] += *r.AmountApproved
		}
	}

	out := make([]*models.RequesterWithStats, 0, len(requesters))
	for _, r := range requesters {
		out = append(out, &models.RequesterWithStats{
			Requester:     *r,
			TotalRequests: counts[r.ID],
			TotalDonated:  donated[r.ID],
		})
	}
	return out, nil
}

// GetRequester returns one requester with its request history and totals.
func (s *Service) GetRequester(ctx context.Context, id uuid.UUID) (*RequesterDetail, error) {
	requester, err := s.store.GetRequester(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "requester not found")
	}
	requests, err := s.store.ListRequestsByRequester(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "requests not found")
	}

	detail := &RequesterDetail{Requester: *requester, Requests: requests}
	for _, r := range requests {
		if r.AmountRequested != nil {
			detail.TotalRequested += *r.AmountRequested
		}
		if r.AmountApproved != nil {
			detail.TotalApproved += *r.AmountApproved
		}
	}
	return detail, nil
}

// CreateRequester records a staff-entered requester.
func (s *Service) CreateRequester(ctx context.Context, in RequesterInput) (*models.Requester, error) {
	in.OrgName = strings.TrimSpace(in.OrgName)
	if in.OrgName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "organization name is required")
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	requester := &models.Requester{
		ID:           uuid.New(),
		OrgName:      in.OrgName,
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Category:     category,
		Address:      strings.TrimSpace(in.Address),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateRequester(ctx, requester); err != nil {
		return nil, wrapStoreErr(err, "requester not found")
	}
	return requester, nil
}

// UpdateRequester saves a staff edit of requester contact fields.
func (s *Service) UpdateRequester(ctx context.Context, id uuid.UUID, in RequesterInput) (*models.Requester, error) {
	in.OrgName = strings.TrimSpace(in.OrgName)
	if in.OrgName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "organization name is required")
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}

	requester, err := s.store.GetRequester(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "requester not found")
	}

	requester.OrgName = in.OrgName
	requester.ContactName = strings.TrimSpace(in.ContactName)
	requester.ContactEmail = strings.TrimSpace(in.ContactEmail)
	requester.ContactPhone = strings.TrimSpace(in.ContactPhone)
	requester.Category = category
	requester.Address = strings.TrimSpace(in.Address)
	requester.Notes = strings.TrimSpace(in.Notes)
	requester.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.UpdateRequester(ctx, requester); err != nil {
		return nil, wrapStoreErr(err, "requester not found")
	}
	return requester, nil
}
