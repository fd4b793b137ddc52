package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/quotenest/quotenest-api/internal/lead"
	"github.com/quotenest/quotenest-api/pkg/logging"
)

const defaultDisclaimer = "This is an AI-generated, non-binding summary for informational purposes only. It is not legal, financial, or coverage advice."

// ErrSendFailed marks a notification dispatch failure. Callers surface it as
// a non-fatal note on the submission response instead of failing the request.
var ErrSendFailed = errors.New("notify: lead email dispatch failed")

// LeadMailer formats and dispatches the internal notification email for an
// accepted lead. Submission fields arrive already sanitized by validation;
// the mailer interpolates them as-is so values are escaped exactly once.
type LeadMailer struct {
	sender EmailSender
	to     string
	logger *logging.Logger
}

// NewLeadMailer creates a lead mailer. A nil sender or empty target address
// produces a mailer that reports itself unconfigured and silently no-ops.
func NewLeadMailer(sender EmailSender, to string, logger *logging.Logger) *LeadMailer {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadMailer{sender: sender, to: to, logger: logger}
}

// Configured reports whether the mailer has a sender and target address.
func (m *LeadMailer) Configured() bool {
	return m != nil && m.sender != nil && m.to != ""
}

// SendLead dispatches the lead notification with plaintext and HTML bodies.
// summary may be nil; the email then carries a placeholder instead.
func (m *LeadMailer) SendLead(ctx context.Context, sub *lead.Submission, summary *lead.Summary) error {
	if !m.Configured() {
		m.logger.Warn("lead mailer not configured, skipping notification")
		return nil
	}

	msg := EmailMessage{
		To:      m.to,
		Subject: fmt.Sprintf("New QuoteNest Lead – %s – %s", sub.FullName, sub.InsuranceType),
		Body:    buildTextBody(sub, summary),
		HTML:    buildHTMLBody(sub, summary),
	}

	if err := m.sender.Send(ctx, msg); err != nil {
		m.logger.Error("lead notification email failed", "error", err, "to", m.to)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	m.logger.Info("lead notification email sent", "to", m.to, "insurance_type", sub.InsuranceType)
	return nil
}

func buildTextBody(sub *lead.Submission, summary *lead.Summary) string {
	lines := []string{
		"New QuoteNest Lead",
		"===================",
		"",
		fmt.Sprintf("Full Name: %s", sub.FullName),
		fmt.Sprintf("Email: %s", sub.Email),
		fmt.Sprintf("Phone: %s", orNA(sub.Phone)),
		fmt.Sprintf("Location: %s", sub.Location),
		fmt.Sprintf("Insurance Type: %s", sub.InsuranceType),
		fmt.Sprintf("Current Provider: %s", orNA(sub.CurrentProvider)),
		fmt.Sprintf("Current Premium: %s", orNA(sub.CurrentPremium)),
		"",
		"Coverage Needs:",
		sub.CoverageNeeds,
		"",
		"Additional Notes:",
		orNA(sub.Notes),
		"",
		"----------------------------------",
		"",
	}

	if summary == nil {
		lines = append(lines, "AI summary not available (generation failed or was skipped).")
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		"AI Insurance Summary:",
		"",
		"Overview:",
		orNA(summary.Overview),
		"",
		"Recommended Coverages:",
	)
	lines = append(lines, bulleted(summary.RecommendedCoverages)...)
	lines = append(lines, "", "Key Risk Factors:")
	lines = append(lines, bulleted(summary.KeyRiskFactors)...)
	lines = append(lines, "", "Savings / Considerations:")
	lines = append(lines, bulleted(summary.SavingsOrConsiderations)...)
	lines = append(lines, "", "Disclaimer:", disclaimerOrDefault(summary))

	return strings.Join(lines, "\n")
}

func buildHTMLBody(sub *lead.Submission, summary *lead.Summary) string {
	var b strings.Builder
	b.WriteString("<h1>New QuoteNest Lead</h1>\n")
	fmt.Fprintf(&b, "<p><strong>Full Name:</strong> %s</p>\n", sub.FullName)
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", sub.Email)
	fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>\n", orNA(sub.Phone))
	fmt.Fprintf(&b, "<p><strong>Location:</strong> %s</p>\n", sub.Location)
	fmt.Fprintf(&b, "<p><strong>Insurance Type:</strong> %s</p>\n", sub.InsuranceType)
	fmt.Fprintf(&b, "<p><strong>Current Provider:</strong> %s</p>\n", orNA(sub.CurrentProvider))
	fmt.Fprintf(&b, "<p><strong>Current Premium:</strong> %s</p>\n", orNA(sub.CurrentPremium))
	fmt.Fprintf(&b, "<p><strong>Coverage Needs:</strong><br/>%s</p>\n", sub.CoverageNeeds)
	fmt.Fprintf(&b, "<p><strong>Additional Notes:</strong><br/>%s</p>\n", orNA(sub.Notes))
	b.WriteString("<hr/>\n")

	b.WriteString("<h2>AI Insurance Summary</h2>\n")
	if summary == nil {
		b.WriteString("<p>AI summary is not available (generation failed or was skipped).</p>\n")
		return b.String()
	}

	// Summary content comes straight from the model and is escaped here,
	// its single escaping boundary. Submission fields were escaped at
	// validation and are interpolated untouched.
	fmt.Fprintf(&b, "<p><strong>Overview:</strong> %s</p>\n", html.EscapeString(orNA(summary.Overview)))
	b.WriteString("<h3>Recommended Coverages</h3>\n")
	writeHTMLList(&b, summary.RecommendedCoverages)
	b.WriteString("<h3>Key Risk Factors</h3>\n")
	writeHTMLList(&b, summary.KeyRiskFactors)
	b.WriteString("<h3>Savings / Considerations</h3>\n")
	writeHTMLList(&b, summary.SavingsOrConsiderations)
	fmt.Fprintf(&b, "<p><strong>Disclaimer:</strong> %s</p>\n", html.EscapeString(disclaimerOrDefault(summary)))

	return b.String()
}

func writeHTMLList(b *strings.Builder, items []string) {
	b.WriteString("<ul>\n")
	if len(items) == 0 {
		b.WriteString("<li>N/A</li>\n")
	}
	for _, item := range items {
		fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(item))
	}
	b.WriteString("</ul>\n")
}

func bulleted(items []string) []string {
	if len(items) == 0 {
		return []string{"- N/A"}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, "- "+item)
	}
	return out
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func disclaimerOrDefault(summary *lead.Summary) string {
	if summary.Disclaimer != "" {
		return summary.Disclaimer
	}
	return defaultDisclaimer
}
