package models

import (
	dErrors "donationdesk/pkg/domain-errors"
)

// Status is the review lifecycle state of a donation request.
//
// The flow staff usually follow is new -> under_review -> approved|denied ->
// fulfilled, but any status may be set from any other via manual edit; the
// lifecycle package only validates the value and stamps derived timestamps.
type Status string

const (
	StatusNew         Status = "new"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusDenied      Status = "denied"
	StatusFulfilled   Status = "fulfilled"
)

// Statuses lists all valid statuses in lifecycle order.
var Statuses = []Status{StatusNew, StatusUnderReview, StatusApproved, StatusDenied, StatusFulfilled}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	switch s {
	case StatusNew, StatusUnderReview, StatusApproved, StatusDenied, StatusFulfilled:
		return s, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "invalid status %q", raw)
}

// Pending reports whether the request still awaits a decision.
func (s Status) Pending() bool {
	return s == StatusNew || s == StatusUnderReview
}

// Decided reports whether the request has reached a decision.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusDenied || s == StatusFulfilled
}

// Granted reports whether the decision went the requester's way.
func (s Status) Granted() bool {
	return s == StatusApproved || s == StatusFulfilled
}

// Label returns the display text for a status.
func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusUnderReview:
		return "Under Review"
	case StatusApproved:
		return "Approved"
	case StatusDenied:
		return "Denied"
	case StatusFulfilled:
		return "Fulfilled"
	}
	return string(s)
}

// Category classifies a requester.
type Category string

const (
	CategorySchool         Category = "school"
	CategoryNonprofit      Category = "nonprofit"
	CategorySportsTeam     Category = "sports_team"
	CategoryCommunityEvent Category = "community_event"
	CategoryReligious      Category = "religious"
	CategoryOther          Category = "other"
)

// ParseCategory validates a raw category, defaulting blank to "other".
func ParseCategory(raw string) (Category, error) {
	if raw == "" {
		return CategoryOther, nil
	}
	c := Category(raw)
	switch c {
	case CategorySchool, CategoryNonprofit, CategorySportsTeam, CategoryCommunityEvent, CategoryReligious, CategoryOther:
		return c, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "invalid category %q", raw)
}

// Label returns the display text for a category.
func (c Category) Label() string {
	switch c {
	case CategorySchool:
		return "School"
	case CategoryNonprofit:
		return "Nonprofit"
	case CategorySportsTeam:
		return "Sports Team"
	case CategoryCommunityEvent:
		return "Community Event"
	case CategoryReligious:
		return "Religious"
	}
	return "Other"
}

// DonationType classifies what is being asked for.
type DonationType string

const (
	DonationMonetary    DonationType = "monetary"
	DonationGiftCard    DonationType = "gift_card"
	DonationProduct     DonationType = "product"
	DonationSponsorship DonationType = "sponsorship"
	DonationInKind      DonationType = "in_kind"
	DonationOther       DonationType = "other"
)

// ParseDonationType validates a raw donation type, defaulting blank to
// "gift_card" (the public form's default).
func ParseDonationType(raw string) (DonationType, error) {
	if raw == "" {
		return DonationGiftCard, nil
	}
	d := DonationType(raw)
	switch d {
	case DonationMonetary, DonationGiftCard, DonationProduct, DonationSponsorship, DonationInKind, DonationOther:
		return d, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "invalid donation type %q", raw)
}

// Label returns the display text for a donation type.
func (d DonationType) Label() string {
	switch d {
	case DonationMonetary:
		return "Monetary"
	case DonationGiftCard:
		return "Gift Card"
	case DonationProduct:
		return "Product/Goods"
	case DonationSponsorship:
		return "Sponsorship"
	case DonationInKind:
		return "In-Kind"
	}
	return "Other"
}
