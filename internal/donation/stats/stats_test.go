package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donationdesk/internal/donation/models"
)

var now = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func newRequest(status models.Status, approved *float64, createdAt time.Time) *models.RequestWithRequester {
	return &models.RequestWithRequester{
		DonationRequest: models.DonationRequest{
			ID:             uuid.New(),
			Status:         status,
			AmountApproved: approved,
			CreatedAt:      createdAt,
		},
	}
}

func amount(v float64) *float64 { return &v }

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, now)

	assert.Zero(t, s.TotalDonatedYTD)
	assert.Zero(t, s.RequestsThisMonth)
	assert.Zero(t, s.PendingReview)
	assert.Equal(t, 0, s.ApprovalRate, "empty decided set yields 0, not a division error")
	assert.Empty(t, s.StatusCounts)
	assert.Empty(t, s.RecentRequests)
}

func TestComputeDashboardScenario(t *testing.T) {
	// Three requests this year: approved $100, fulfilled $50, denied.
	requests := []*models.RequestWithRequester{
		newRequest(models.StatusApproved, amount(100), now.AddDate(0, -1, 0)),
		newRequest(models.StatusFulfilled, amount(50), now.AddDate(0, -2, 0)),
		newRequest(models.StatusDenied, nil, now.AddDate(0, -3, 0)),
	}

	s := Compute(requests, now)

	assert.Equal(t, 150.0, s.TotalDonatedYTD)
	assert.Equal(t, 67, s.ApprovalRate, "2 of 3 decided, rounded")
	assert.Zero(t, s.PendingReview)
}

func TestComputeYTDWindow(t *testing.T) {
	requests := []*models.RequestWithRequester{
		newRequest(models.StatusApproved, amount(100), now.AddDate(0, -1, 0)),
		// Approved last year: counted in the approval rate but not YTD.
		newRequest(models.StatusApproved, amount(500), now.AddDate(-1, 0, 0)),
		// Pending this year: no approved amount counted regardless.
		newRequest(models.StatusNew, amount(75), now),
	}

	s := Compute(requests, now)

	assert.Equal(t, 100.0, s.TotalDonatedYTD)
	assert.Equal(t, 100, s.ApprovalRate)
}

func TestComputeMonthWindow(t *testing.T) {
	requests := []*models.RequestWithRequester{
		newRequest(models.StatusNew, nil, now),
		newRequest(models.StatusNew, nil, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)),
		newRequest(models.StatusNew, nil, now.AddDate(0, -1, 0)),
	}

	s := Compute(requests, now)

	assert.Equal(t, 2, s.RequestsThisMonth, "first of the month is inclusive")
}

func TestComputeStatusCounts(t *testing.T) {
	requests := []*models.RequestWithRequester{
		newRequest(models.StatusNew, nil, now),
		newRequest(models.StatusNew, nil, now),
		newRequest(models.StatusUnderReview, nil, now),
		newRequest(models.StatusApproved, nil, now),
		newRequest(models.StatusDenied, nil, now),
		newRequest(models.StatusFulfilled, nil, now),
	}

	s := Compute(requests, now)

	total := 0
	for _, n := range s.StatusCounts {
		total += n
	}
	assert.Equal(t, len(requests), total, "status counts partition the collection")
	assert.Equal(t, s.StatusCounts["new"]+s.StatusCounts["under_review"], s.PendingReview)
	assert.Equal(t, 2, s.StatusCounts["new"])
	assert.Equal(t, 3, s.PendingReview)
}

func TestComputeUnknownStatusPassesThrough(t *testing.T) {
	requests := []*models.RequestWithRequester{
		newRequest(models.Status("archived"), amount(40), now),
		newRequest(models.StatusApproved, amount(10), now),
	}

	s := Compute(requests, now)

	assert.Equal(t, 1, s.StatusCounts["archived"], "unknown status counted under its literal value")
	assert.Equal(t, 10.0, s.TotalDonatedYTD, "unknown status excluded from YTD")
	assert.Equal(t, 100, s.ApprovalRate, "unknown status excluded from decided set")
	assert.Zero(t, s.PendingReview)
}

func TestComputeRecentRequests(t *testing.T) {
	var requests []*models.RequestWithRequester
	for i := 0; i < 15; i++ {
		requests = append(requests, newRequest(models.StatusNew, nil, now.Add(-time.Duration(i)*time.Hour)))
	}
	// Shuffle-ish: reverse so the input is oldest first.
	for i, j := 0, len(requests)-1; i < j; i, j = i+1, j-1 {
		requests[i], requests[j] = requests[j], requests[i]
	}

	s := Compute(requests, now)

	require.Len(t, s.RecentRequests, RecentLimit)
	for i := 1; i < len(s.RecentRequests); i++ {
		assert.False(t, s.RecentRequests[i-1].CreatedAt.Before(s.RecentRequests[i].CreatedAt),
			"recent requests sorted newest first")
	}
	assert.Equal(t, now.Add(-14*time.Hour), requests[0].CreatedAt, "input order untouched")
}

func TestComputeShortCollection(t *testing.T) {
	requests := []*models.RequestWithRequester{
		newRequest(models.StatusNew, nil, now),
		newRequest(models.StatusNew, nil, now.Add(-time.Hour)),
	}

	s := Compute(requests, now)

	assert.Len(t, s.RecentRequests, 2)
}

func TestComputeApprovalRateRounding(t *testing.T) {
	// 1 of 6 decided -> 16.67 -> 17.
	requests := []*models.RequestWithRequester{
		newRequest(models.StatusApproved, nil, now),
		newRequest(models.StatusDenied, nil, now),
		newRequest(models.StatusDenied, nil, now),
		newRequest(models.StatusDenied, nil, now),
		newRequest(models.StatusDenied, nil, now),
		newRequest(models.StatusDenied, nil, now),
	}

	s := Compute(requests, now)

	assert.Equal(t, 17, s.ApprovalRate)
	assert.GreaterOrEqual(t, s.ApprovalRate, 0)
	assert.LessOrEqual(t, s.ApprovalRate, 100)
}
