package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	dErrors "donationdesk/pkg/domain-errors"
	"donationdesk/pkg/requestcontext"
)

// SendReplyInput is a composed reply ready to send.
type SendReplyInput struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendReply delivers a reply email for a request and, on success, stamps the
// request with the send time and subject. A delivery failure surfaces to the
// composing view; retry is manual.
func (s *Service) SendReply(ctx context.Context, requestID uuid.UUID, in SendReplyInput) error {
	if s.sender == nil {
		return dErrors.New(dErrors.CodeUnavailable, "email sending is not configured")
	}

	var missing []string
	if strings.TrimSpace(in.To) == "" {
		missing = append(missing, "to")
	}
	if strings.TrimSpace(in.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(in.Body) == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeValidation, "required fields missing: %s", strings.Join(missing, ", "))
	}

	current, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return wrapStoreErr(err, "request not found")
	}

	if err := s.sender.Send(ctx, in.To, in.Subject, in.Body); err != nil {
		s.logger.ErrorContext(ctx, "reply email send failed",
			"request_id", requestcontext.RequestID(ctx),
			"donation_request_id", requestID.String(),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send email")
	}

	now := requestcontext.Now(ctx)
	updated := current.DonationRequest
	updated.EmailSentAt = &now
	updated.EmailSubject = in.Subject
	updated.UpdatedAt = now
	if err := s.store.UpdateRequest(ctx, &updated); err != nil {
		// The email went out; a failed stamp only loses the sent marker.
		s.logger.WarnContext(ctx, "email sent but stamp failed",
			"donation_request_id", requestID.String(),
			"error", err.Error(),
		)
	}

	s.incEmailsSent()
	return nil
}

// GenerateDraft asks the draft collaborator for reply text for a request.
// The output is advisory; staff edit it before sending. Failures surface as
// a retryable error with no fallback content.
func (s *Service) GenerateDraft(ctx context.Context, requestID uuid.UUID) (*Draft, error) {
	if s.drafts == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "draft generation is not configured")
	}

	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, wrapStoreErr(err, "request not found")
	}

	draft, err := s.drafts.Generate(ctx, DraftContext{
		OrgName:         req.Requester.OrgName,
		ContactName:     req.Requester.ContactName,
		Status:          req.Status,
		AmountRequested: req.AmountRequested,
		AmountApproved:  req.AmountApproved,
		EventName:       req.EventName,
		EventDate:       req.EventDate,
		DonationType:    req.DonationType,
		Description:     req.Description,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "draft generation failed",
			"request_id", requestcontext.RequestID(ctx),
			"donation_request_id", requestID.String(),
			"error", err.Error(),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to generate draft")
	}

	s.incDraftsGenerated()
	return draft, nil
}

func (s *Service) incEmailsSent() {
	if s.metrics != nil {
		s.metrics.EmailsSent.Inc()
	}
}

func (s *Service) incDraftsGenerated() {
	if s.metrics != nil {
		s.metrics.DraftsGenerated.Inc()
	}
}
