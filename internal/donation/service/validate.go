package service

import (
	"time"

	dErrors "donationdesk/pkg/domain-errors"
)

// dateLayout is the wire format for calendar dates (request date).
const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeValidation, "invalid date %q, want YYYY-MM-DD", raw)
	}
	return t, nil
}

func requireNonNegative(v *float64, field string) error {
	if v != nil && *v < 0 {
		return dErrors.Newf(dErrors.CodeValidation, "%s must not be negative", field)
	}
	return nil
}
