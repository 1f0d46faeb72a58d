package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"donationdesk/internal/donation/models"
	dErrors "donationdesk/pkg/domain-errors"
	"donationdesk/pkg/requestcontext"
)

// PublicSubmission is the public form payload. All fields arrive as strings;
// AmountRequested is parsed leniently and never causes a rejection.
type PublicSubmission struct {
	OrgName         string `json:"orgName"`
	ContactName     string `json:"contactName"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
	Category        string `json:"category"`
	EventName       string `json:"eventName"`
	EventDate       string `json:"eventDate"`
	AmountRequested string `json:"amountRequested"`
	DonationType    string `json:"donationType"`
	Description     string `json:"description"`
}

// SubmitPublicRequest normalizes a public submission into store writes.
//
// The requester is matched by contact email (case-insensitive): a match gets
// its contact fields refreshed (email itself never changes), otherwise a new
// requester is created. Then exactly one donation request is created in
// status "new" with today's request date.
//
// The two writes are not atomic: a request-write failure after the requester
// write leaves an updated or orphaned requester behind. The failure is
// surfaced, not masked.
func (s *Service) SubmitPublicRequest(ctx context.Context, sub PublicSubmission) error {
	sub.OrgName = strings.TrimSpace(sub.OrgName)
	sub.ContactName = strings.TrimSpace(sub.ContactName)
	sub.ContactEmail = strings.TrimSpace(sub.ContactEmail)
	sub.Description = strings.TrimSpace(sub.Description)

	var missing []string
	if sub.OrgName == "" {
		missing = append(missing, "orgName")
	}
	if sub.ContactName == "" {
		missing = append(missing, "contactName")
	}
	if sub.ContactEmail == "" {
		missing = append(missing, "contactEmail")
	}
	if sub.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeValidation, "required fields missing: %s", strings.Join(missing, ", "))
	}

	now := requestcontext.Now(ctx)
	requesterID, err := s.resolveRequester(ctx, sub)
	if err != nil {
		return err
	}

	req := &models.DonationRequest{
		ID:              uuid.New(),
		RequesterID:     requesterID,
		Description:     sub.Description,
		RequestDate:     now,
		EventName:       strings.TrimSpace(sub.EventName),
		EventDate:       strings.TrimSpace(sub.EventDate),
		AmountRequested: parseAmount(sub.AmountRequested),
		DonationType:    lenientDonationType(sub.DonationType),
		Status:          models.StatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "public intake: request write failed after requester write",
			"request_id", requestcontext.RequestID(ctx),
			"requester_id", requesterID.String(),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit request, please try again")
	}

	s.incSubmissionsReceived()
	return nil
}

// resolveRequester finds the requester owning the submission's contact email,
// refreshing its contact info, or creates a new one. At most one requester
// row is created or updated per submission.
func (s *Service) resolveRequester(ctx context.Context, sub PublicSubmission) (uuid.UUID, error) {
	now := requestcontext.Now(ctx)

	existing, err := s.store.FindRequesterByEmail(ctx, sub.ContactEmail)
	if err == nil {
		existing.OrgName = sub.OrgName
		existing.ContactName = sub.ContactName
		existing.ContactPhone = strings.TrimSpace(sub.ContactPhone)
		existing.Category = lenientCategory(sub.Category)
		existing.UpdatedAt = now
		if err := s.store.UpdateRequester(ctx, existing); err != nil {
			return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit request, please try again")
		}
		return existing.ID, nil
	}

	requester := &models.Requester{
		ID:           uuid.New(),
		OrgName:      sub.OrgName,
		ContactName:  sub.ContactName,
		ContactEmail: sub.ContactEmail,
		ContactPhone: strings.TrimSpace(sub.ContactPhone),
		Category:     lenientCategory(sub.Category),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateRequester(ctx, requester); err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit request, please try again")
	}
	return requester.ID, nil
}

// parseAmount parses the public form's amount string. Blank, unparseable, or
// negative values become nil rather than rejecting the submission.
func parseAmount(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// The public form never rejects on enum fields: unknown values fall back to
// the defaults rather than bouncing a submitter.
func lenientCategory(raw string) models.Category {
	c, err := models.ParseCategory(strings.TrimSpace(raw))
	if err != nil {
		return models.CategoryOther
	}
	return c
}

func lenientDonationType(raw string) models.DonationType {
	d, err := models.ParseDonationType(strings.TrimSpace(raw))
	if err != nil {
		return models.DonationGiftCard
	}
	return d
}

func (s *Service) incSubmissionsReceived() {
	if s.metrics != nil {
		s.metrics.SubmissionsReceived.Inc()
	}
}
