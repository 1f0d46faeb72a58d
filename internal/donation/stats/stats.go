// Package stats computes the dashboard summary from a snapshot of donation
// requests. Compute is a pure function of (snapshot, now): no store access,
// no side effects, stable under reordering of the input.
package stats

import (
	"math"
	"sort"
	"time"

	"donationdesk/internal/donation/models"
)

// RecentLimit caps the recent-requests list on the dashboard.
const RecentLimit = 10

// DashboardStats is the fixed summary rendered at the top of the dashboard.
type DashboardStats struct {
	TotalDonatedYTD   float64                        `json:"total_donated_ytd"`
	RequestsThisMonth int                            `json:"requests_this_month"`
	PendingReview     int                            `json:"pending_review"`
	ApprovalRate      int                            `json:"approval_rate"`
	StatusCounts      map[string]int                 `json:"status_counts"`
	RecentRequests    []*models.RequestWithRequester `json:"recent_requests"`
}

// Compute aggregates the full request snapshot as of now.
//
// Calendar windows (YTD, this month) use the location of now, so the caller
// decides local-vs-UTC once and tests stay deterministic. Unknown status
// values are counted under their literal value in StatusCounts but take no
// part in the pending/decided logic.
func Compute(requests []*models.RequestWithRequester, now time.Time) DashboardStats {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s := DashboardStats{
		StatusCounts:   make(map[string]int),
		RecentRequests: []*models.RequestWithRequester{},
	}

	var decided, granted int
	for _, r := range requests {
		s.StatusCounts[string(r.Status)]++

		if r.Status.Granted() && !r.CreatedAt.Before(yearStart) {
			s.TotalDonatedYTD += amountOrZero(r.AmountApproved)
		}
		if !r.CreatedAt.Before(monthStart) {
			s.RequestsThisMonth++
		}
		if r.Status.Pending() {
			s.PendingReview++
		}
		if r.Status.Decided() {
			decided++
			if r.Status.Granted() {
				granted++
			}
		}
	}

	if decided > 0 {
		s.ApprovalRate = int(math.Round(float64(granted) / float64(decided) * 100))
	}

	s.RecentRequests = recent(requests, RecentLimit)
	return s
}

// recent returns the newest n requests by creation time without mutating the
// caller's slice.
func recent(requests []*models.RequestWithRequester, n int) []*models.RequestWithRequester {
	sorted := make([]*models.RequestWithRequester, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func amountOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
