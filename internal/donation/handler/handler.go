// Package handler wires the donation service to HTTP. It stays thin:
// decode, delegate, translate errors.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"donationdesk/internal/donation/models"
	"donationdesk/internal/donation/service"
	"donationdesk/internal/platform/metrics"
	"donationdesk/internal/platform/middleware"
	"donationdesk/internal/transport/http/shared"
	dErrors "donationdesk/pkg/domain-errors"
)

// Service is the interface the handler needs from the donation service.
type Service interface {
	Dashboard(ctx context.Context) (*service.DashboardView, error)
	ListRequests(ctx context.Context) ([]*models.RequestWithRequester, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error)
	CreateRequest(ctx context.Context, in service.CreateRequestInput) (*models.DonationRequest, error)
	UpdateRequest(ctx context.Context, id uuid.UUID, in service.UpdateRequestInput) (*models.RequestWithRequester, error)
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	Approve(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error)
	Deny(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error)
	Fulfill(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error)
	ListRequesters(ctx context.Context) ([]*models.RequesterWithStats, error)
	GetRequester(ctx context.Context, id uuid.UUID) (*service.RequesterDetail, error)
	CreateRequester(ctx context.Context, in service.RequesterInput) (*models.Requester, error)
	UpdateRequester(ctx context.Context, id uuid.UUID, in service.RequesterInput) (*models.Requester, error)
	SubmitPublicRequest(ctx context.Context, sub service.PublicSubmission) error
	SendReply(ctx context.Context, requestID uuid.UUID, in service.SendReplyInput) error
	GenerateDraft(ctx context.Context, requestID uuid.UUID) (*service.Draft, error)
}

// Handler serves the donation tracker API.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	auth    middleware.JWTValidator

	// publicLimiter throttles the public submission route; nil disables it.
	publicLimiter func(http.Handler) http.Handler
}

// Option configures optional handler dependencies.
type Option func(*Handler)

// WithMetrics wires latency metrics into the middleware chain.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithPublicLimiter throttles POST /api/public-request.
func WithPublicLimiter(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) { h.publicLimiter = mw }
}

// New constructs the HTTP handler.
func New(svc Service, auth middleware.JWTValidator, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: svc, logger: logger, auth: auth}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts all API routes on r.
func (h *Handler) Register(r chi.Router) {
	api := chi.NewRouter()
	api.Use(middleware.Recovery(h.logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(h.logger))
	api.Use(middleware.Timeout(30 * time.Second))
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.Latency(h.metrics))

	// Public submission form endpoint.
	api.Group(func(pub chi.Router) {
		if h.publicLimiter != nil {
			pub.Use(h.publicLimiter)
		}
		pub.Post("/public-request", h.handlePublicRequest)
	})

	// Staff API.
	api.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireAuth(h.auth, h.logger))

		staff.Get("/dashboard", h.handleDashboard)

		staff.Get("/requests", h.handleListRequests)
		staff.Post("/requests", h.handleCreateRequest)
		staff.Get("/requests/{id}", h.handleGetRequest)
		staff.Put("/requests/{id}", h.handleUpdateRequest)
		staff.Delete("/requests/{id}", h.handleDeleteRequest)
		staff.Post("/requests/{id}/approve", h.handleApprove)
		staff.Post("/requests/{id}/deny", h.handleDeny)
		staff.Post("/requests/{id}/fulfill", h.handleFulfill)
		staff.Post("/requests/{id}/email", h.handleSendReply)
		staff.Post("/requests/{id}/draft", h.handleGenerateDraft)

		staff.Get("/requesters", h.handleListRequesters)
		staff.Post("/requesters", h.handleCreateRequester)
		staff.Get("/requesters/{id}", h.handleGetRequester)
		staff.Put("/requesters/{id}", h.handleUpdateRequester)
	})

	r.Mount("/api", api)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logError(r, "dashboard load failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListRequests(r.Context())
	if err != nil {
		h.logError(r, "list requests failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.service.CreateRequest(r.Context(), in)
	if err != nil {
		h.logError(r, "create request failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"request": created})
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"request": req})
}

func (h *Handler) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in service.UpdateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.service.UpdateRequest(r.Context(), id, in)
	if err != nil {
		h.logError(r, "update request failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"request": updated})
}

func (h *Handler) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRequest(r.Context(), id); err != nil {
		h.logError(r, "delete request failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteSuccess(w)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.quickAction(w, r, h.service.Approve)
}

func (h *Handler) handleDeny(w http.ResponseWriter, r *http.Request) {
	h.quickAction(w, r, h.service.Deny)
}

func (h *Handler) handleFulfill(w http.ResponseWriter, r *http.Request) {
	h.quickAction(w, r, h.service.Fulfill)
}

func (h *Handler) quickAction(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*models.RequestWithRequester, error)) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	updated, err := fn(r.Context(), id)
	if err != nil {
		h.logError(r, "status change failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"request": updated})
}

func (h *Handler) handleSendReply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in service.SendReplyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.service.SendReply(r.Context(), id, in); err != nil {
		h.logError(r, "send reply failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteSuccess(w)
}

func (h *Handler) handleGenerateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	draft, err := h.service.GenerateDraft(r.Context(), id)
	if err != nil {
		h.logError(r, "generate draft failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleListRequesters(w http.ResponseWriter, r *http.Request) {
	requesters, err := h.service.ListRequesters(r.Context())
	if err != nil {
		h.logError(r, "list requesters failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requesters": requesters})
}

func (h *Handler) handleCreateRequester(w http.ResponseWriter, r *http.Request) {
	var in service.RequesterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.service.CreateRequester(r.Context(), in)
	if err != nil {
		h.logError(r, "create requester failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"requester": created})
}

func (h *Handler) handleGetRequester(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetRequester(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleUpdateRequester(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in service.RequesterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.service.UpdateRequester(r.Context(), id, in)
	if err != nil {
		h.logError(r, "update requester failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requester": updated})
}

func (h *Handler) handlePublicRequest(w http.ResponseWriter, r *http.Request) {
	var sub service.PublicSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.service.SubmitPublicRequest(r.Context(), sub); err != nil {
		h.logError(r, "public submission failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteSuccess(w)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeNotFound) {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
}
