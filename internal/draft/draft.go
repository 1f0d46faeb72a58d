// Package draft generates reply-email drafts with Gemini. Output is
// advisory text the staff member edits before sending; the subject line is
// derived locally, not by the model.
package draft

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"donationdesk/internal/donation/models"
	"donationdesk/internal/donation/service"
	"donationdesk/internal/platform/config"
)

// Generator produces reply drafts via the Gemini API.
type Generator struct {
	client       *genai.Client
	model        string
	businessName string
}

// NewGenerator constructs a Generator, or (nil, nil) when no API key is
// configured so the service reports drafting as unavailable.
func NewGenerator(ctx context.Context, cfg config.DraftConfig, businessName string) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Generator{client: client, model: cfg.Model, businessName: businessName}, nil
}

// Generate asks the model for an email body and pairs it with a locally
// derived subject.
func (g *Generator) Generate(ctx context.Context, dc service.DraftContext) (*service.Draft, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(g.businessName, dc)), nil)
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}
	body := strings.TrimSpace(resp.Text())
	if body == "" {
		return nil, fmt.Errorf("generate draft: empty response")
	}
	return &service.Draft{
		Draft:   body,
		Subject: Subject(g.businessName, dc.Status, dc.EventName),
	}, nil
}

// Subject derives the reply subject from the request status, appending the
// event name when there is one.
func Subject(businessName string, status models.Status, eventName string) string {
	var prefix string
	switch status {
	case models.StatusApproved, models.StatusFulfilled:
		prefix = "Great News from " + businessName
	case models.StatusDenied:
		prefix = "Update on Your Donation Request - " + businessName
	default:
		prefix = "Regarding Your Donation Request - " + businessName
	}
	if eventName != "" {
		return prefix + " - " + eventName
	}
	return prefix
}

// Prompt renders the model instructions for a draft.
func Prompt(businessName string, dc service.DraftContext) string {
	contact := dc.ContactName
	if contact == "" {
		contact = "the requester"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are writing an email on behalf of %s, a local business that supports their community through donations and sponsorships.\n\n", businessName)
	fmt.Fprintf(&b, "Write a warm, professional email to %s at %s regarding their donation request.\n\n", contact, dc.OrgName)
	b.WriteString("Details:\n")
	fmt.Fprintf(&b, "- %s\n", statusContext(businessName, dc))
	fmt.Fprintf(&b, "- They requested: %s\n", amountOr(dc.AmountRequested, "an unspecified amount"))
	donationType := dc.DonationType
	if donationType == "" {
		donationType = models.DonationMonetary
	}
	fmt.Fprintf(&b, "- Donation type: %s\n", donationType)
	if dc.EventName != "" {
		fmt.Fprintf(&b, "- Event: %s\n", dc.EventName)
	}
	if dc.EventDate != "" {
		fmt.Fprintf(&b, "- Event date: %s\n", dc.EventDate)
	}
	if dc.Description != "" {
		fmt.Fprintf(&b, "- Their request: %s\n", dc.Description)
	}
	b.WriteString("\nGuidelines:\n")
	fmt.Fprintf(&b, "- Keep it friendly and warm; %s is a community-focused business\n", businessName)
	b.WriteString("- Be concise (3-5 short paragraphs max)\n")
	b.WriteString("- If approved/fulfilled: express excitement to support their cause\n")
	b.WriteString("- If denied: be kind, explain that they receive many requests and can't fulfill all of them, and encourage them to apply again in the future\n")
	fmt.Fprintf(&b, "- Sign off as \"The %s Team\"\n", businessName)
	b.WriteString("- Do NOT include a subject line, just the email body\n")
	b.WriteString("- Do NOT include [brackets] or placeholder text")
	return b.String()
}

func statusContext(businessName string, dc service.DraftContext) string {
	switch dc.Status {
	case models.StatusApproved:
		s := "The donation request has been APPROVED."
		if dc.AmountApproved != nil {
			s += fmt.Sprintf(" %s is donating %s.", businessName, amountOr(dc.AmountApproved, ""))
		}
		return s
	case models.StatusDenied:
		return "The donation request has been DENIED."
	case models.StatusFulfilled:
		s := "The donation request has been FULFILLED."
		if dc.AmountApproved != nil {
			s += fmt.Sprintf(" %s donated %s.", businessName, amountOr(dc.AmountApproved, ""))
		}
		return s
	}
	return fmt.Sprintf("The donation request status is: %s.", dc.Status)
}

func amountOr(v *float64, fallback string) string {
	if v == nil {
		return fallback
	}
	return "$" + strconv.FormatFloat(*v, 'f', -1, 64)
}
