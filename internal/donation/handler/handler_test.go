package handler_test

import (
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donationdesk/internal/auth"
	"donationdesk/internal/donation/handler"
	"donationdesk/internal/donation/service"
	"donationdesk/internal/donation/store"
	"donationdesk/internal/platform/ratelimit"
	"donationdesk/pkg/testutil"
)

const signingKey = "test-signing-key"

type env struct {
	router  chi.Router
	service *service.Service
	store   *store.InMemory
	token   string
}

func newEnv(t *testing.T, opts ...handler.Option) *env {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	st := store.NewInMemory()
	svc := service.New(st, logger)

	jwtService := auth.NewJWTService(signingKey)
	token, err := jwtService.GenerateToken(uuid.New(), "Pat", time.Hour)
	require.NoError(t, err)

	h := handler.New(svc, jwtService, logger, opts...)
	r := chi.NewRouter()
	h.Register(r)

	return &env{router: r, service: svc, store: st, token: token}
}

func (e *env) authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+e.token)
	return req
}

func (e *env) submission() map[string]any {
	return map[string]any{
		"orgName":      "Lincoln Elementary PTA",
		"contactName":  "Dana",
		"contactEmail": "dana@lincolnpta.org",
		"description":  "Raffle basket for the spring fundraiser",
	}
}

func TestStaffRoutesRequireAuth(t *testing.T) {
	e := newEnv(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/requests"},
		{http.MethodGet, "/api/requesters"},
		{http.MethodPost, "/api/requests/" + uuid.NewString() + "/approve"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rr := testutil.DoRequest(e.router, testutil.NewRequest(t, p.method, p.path))
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRejectsBadToken(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewRequest(t, http.MethodGet, "/api/dashboard")
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := testutil.DoRequest(e.router, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPublicRequestSubmission(t *testing.T) {
	e := newEnv(t)

	rr := testutil.DoRequest(e.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/public-request", e.submission()))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]bool
	testutil.DecodeJSON(t, rr, &body)
	assert.True(t, body["success"])

	// The submission lands in the staff dashboard as a new request.
	rr = testutil.DoRequest(e.router, e.authed(testutil.NewRequest(t, http.MethodGet, "/api/dashboard")))
	require.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		Stats struct {
			PendingReview int `json:"pending_review"`
		} `json:"stats"`
	}
	testutil.DecodeJSON(t, rr, &view)
	assert.Equal(t, 1, view.Stats.PendingReview)
}

func TestPublicRequestValidation(t *testing.T) {
	e := newEnv(t)

	sub := e.submission()
	delete(sub, "contactEmail")
	delete(sub, "description")

	rr := testutil.DoRequest(e.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/public-request", sub))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	assert.Contains(t, body["error"], "contactEmail")
	assert.Contains(t, body["error"], "description")
}

func TestPublicRequestRateLimited(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryCounter(), 2, time.Minute, slog.New(slog.DiscardHandler))
	e := newEnv(t, handler.WithPublicLimiter(limiter.Middleware))

	for i := 0; i < 2; i++ {
		rr := testutil.DoRequest(e.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/public-request", e.submission()))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := testutil.DoRequest(e.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/public-request", e.submission()))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestRequestCRUD(t *testing.T) {
	e := newEnv(t)

	rr := testutil.DoRequest(e.router, e.authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/requesters", map[string]any{
		"org_name":      "Riverside Youth Soccer",
		"contact_email": "sam@riverside.org",
	})))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Requester struct {
			ID uuid.UUID `json:"id"`
		} `json:"requester"`
	}
	testutil.DecodeJSON(t, rr, &created)

	rr = testutil.DoRequest(e.router, e.authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/requests", map[string]any{
		"requester_id": created.Requester.ID,
		"description":  "Team jerseys for the fall season",
	})))
	require.Equal(t, http.StatusCreated, rr.Code)

	var request struct {
		Request struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"request"`
	}
	testutil.DecodeJSON(t, rr, &request)
	assert.Equal(t, "new", request.Request.Status)

	rr = testutil.DoRequest(e.router, e.authed(testutil.NewRequest(t, http.MethodPost, fmt.Sprintf("/api/requests/%s/approve", request.Request.ID))))
	require.Equal(t, http.StatusOK, rr.Code)

	var approved struct {
		Request struct {
			Status     string     `json:"status"`
			ReviewedAt *time.Time `json:"reviewed_at"`
		} `json:"request"`
	}
	testutil.DecodeJSON(t, rr, &approved)
	assert.Equal(t, "approved", approved.Request.Status)
	assert.NotNil(t, approved.Request.ReviewedAt)

	rr = testutil.DoRequest(e.router, e.authed(testutil.NewRequest(t, http.MethodDelete, "/api/requests/"+request.Request.ID.String())))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = testutil.DoRequest(e.router, e.authed(testutil.NewRequest(t, http.MethodGet, "/api/requests/"+request.Request.ID.String())))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvalidPathID(t *testing.T) {
	e := newEnv(t)

	rr := testutil.DoRequest(e.router, e.authed(testutil.NewRequest(t, http.MethodGet, "/api/requests/not-a-uuid")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRequestValidation(t *testing.T) {
	e := newEnv(t)

	rr := testutil.DoRequest(e.router, e.authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/requests", map[string]any{
		"requester_id": uuid.New(),
		"description":  "",
	})))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEmailActionsUnavailableWhenUnconfigured(t *testing.T) {
	e := newEnv(t)

	rr := testutil.DoRequest(e.router, e.authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/requesters", map[string]any{
		"org_name": "Riverside Youth Soccer",
	})))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Requester struct {
			ID uuid.UUID `json:"id"`
		} `json:"requester"`
	}
	testutil.DecodeJSON(t, rr, &created)

	rr = testutil.DoRequest(e.router, e.authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/requests", map[string]any{
		"requester_id": created.Requester.ID,
		"description":  "Gift basket",
	})))
	require.Equal(t, http.StatusCreated, rr.Code)

	var request struct {
		Request struct {
			ID uuid.UUID `json:"id"`
		} `json:"request"`
	}
	testutil.DecodeJSON(t, rr, &request)

	rr = testutil.DoRequest(e.router, e.authed(testutil.NewRequest(t, http.MethodPost, fmt.Sprintf("/api/requests/%s/draft", request.Request.ID))))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
