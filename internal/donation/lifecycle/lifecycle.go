// Package lifecycle stamps the derived review timestamps when a donation
// request is saved with a new status. It never persists anything itself: it
// produces the write payload the store applies.
package lifecycle

import (
	"time"

	"donationdesk/internal/donation/models"
)

// Apply validates the proposed status and returns the reviewed/fulfilled
// timestamps the save must carry.
//
// Stamping keys off the status value at save time, not the transition edge:
// every save while the status is approved or denied re-stamps ReviewedAt,
// and every save while fulfilled re-stamps FulfilledAt. Saves with any other
// status leave both timestamps as they were (sticky once set). Any status
// may follow any other; the only rejection is an unrecognized status value.
func Apply(current *models.DonationRequest, rawStatus string, now time.Time) (models.Status, *time.Time, *time.Time, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return "", nil, nil, err
	}

	reviewedAt := current.ReviewedAt
	fulfilledAt := current.FulfilledAt

	switch status {
	case models.StatusApproved, models.StatusDenied:
		t := now
		reviewedAt = &t
	case models.StatusFulfilled:
		t := now
		fulfilledAt = &t
	}

	return status, reviewedAt, fulfilledAt, nil
}
