// Package service orchestrates the donation domain: dashboard aggregation,
// request lifecycle, public intake, and the reply email/draft actions.
// Stores, the mail sender, and the draft generator are injected as
// interfaces; the service owns validation and error translation.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"donationdesk/internal/donation/models"
	"donationdesk/internal/platform/metrics"
	dErrors "donationdesk/pkg/domain-errors"
	"donationdesk/pkg/platform/sentinel"
)

// RequesterStore is the persistence port for requesters.
type RequesterStore interface {
	CreateRequester(ctx context.Context, r *models.Requester) error
	UpdateRequester(ctx context.Context, r *models.Requester) error
	GetRequester(ctx context.Context, id uuid.UUID) (*models.Requester, error)
	FindRequesterByEmail(ctx context.Context, email string) (*models.Requester, error)
	ListRequesters(ctx context.Context) ([]*models.Requester, error)
}

// RequestStore is the persistence port for donation requests. List results
// carry the owning requester embedded and come back newest first.
type RequestStore interface {
	CreateRequest(ctx context.Context, r *models.DonationRequest) error
	UpdateRequest(ctx context.Context, r *models.DonationRequest) error
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	GetRequest(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error)
	ListRequests(ctx context.Context) ([]*models.RequestWithRequester, error)
	ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]*models.RequestWithRequester, error)
}

// Store combines both persistence ports; the in-memory and Postgres stores
// implement it.
type Store interface {
	RequesterStore
	RequestStore
}

// Sender delivers reply emails. Failures surface to the composing staff
// member; retry is manual.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DraftContext carries the request details the draft generator writes from.
type DraftContext struct {
	OrgName         string
	ContactName     string
	Status          models.Status
	AmountRequested *float64
	AmountApproved  *float64
	EventName       string
	EventDate       string
	DonationType    models.DonationType
	Description     string
}

// Draft is generated reply text, advisory only: staff edit before sending.
type Draft struct {
	Draft   string `json:"draft"`
	Subject string `json:"subject"`
}

// DraftGenerator produces a reply draft for a request.
type DraftGenerator interface {
	Generate(ctx context.Context, dc DraftContext) (*Draft, error)
}

// Service exposes the donation tracker operations.
type Service struct {
	store   Store
	sender  Sender
	drafts  DraftGenerator
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithSender wires the reply email sender.
func WithSender(s Sender) Option {
	return func(svc *Service) { svc.sender = s }
}

// WithDraftGenerator wires the reply draft generator.
func WithDraftGenerator(g DraftGenerator) Option {
	return func(svc *Service) { svc.drafts = g }
}

// WithMetrics wires Prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// New constructs the donation service.
func New(store Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{store: store, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// wrapStoreErr translates store sentinels into coded domain errors. The
// message is generic; the cause stays attached for logs.
func wrapStoreErr(err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store operation failed")
}
