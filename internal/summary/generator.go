// Package summary produces the optional AI-generated insurance summary for a
// validated lead. Generation is best-effort; callers swallow every error and
// continue without a summary.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quotenest/quotenest-api/internal/lead"
)

const systemPrompt = "You are a professional insurance agent assistant. Generate clear, helpful, and accurate insurance summaries. Always include appropriate disclaimers about non-binding nature of information."

// Generator produces a summary for a validated submission.
type Generator interface {
	Generate(ctx context.Context, sub *lead.Submission) (*lead.Summary, error)
}

// buildPrompt renders the fixed summary prompt for a validated lead.
// Optional fields are omitted entirely when absent.
func buildPrompt(sub *lead.Submission) string {
	var b strings.Builder
	b.WriteString("You are an experienced insurance agent helping to generate a preliminary, non-binding insurance summary for a potential client.\n\n")
	b.WriteString("IMPORTANT DISCLAIMER: This summary is for informational purposes only and does not constitute legal advice, guaranteed coverage, or a binding insurance quote. All coverage decisions must be made through a licensed insurance agent after proper underwriting.\n\n")
	b.WriteString("Client Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", sub.FullName)
	fmt.Fprintf(&b, "- Location: %s\n", sub.Location)
	fmt.Fprintf(&b, "- Insurance Type: %s\n", sub.InsuranceType)
	if sub.CurrentProvider != "" {
		fmt.Fprintf(&b, "- Current Provider: %s\n", sub.CurrentProvider)
	}
	if sub.CurrentPremium != "" {
		fmt.Fprintf(&b, "- Current Premium: %s\n", sub.CurrentPremium)
	}
	if sub.Phone != "" {
		fmt.Fprintf(&b, "- Phone: %s\n", sub.Phone)
	}
	b.WriteString("\nCoverage Needs:\n")
	b.WriteString(sub.CoverageNeeds)
	b.WriteString("\n")
	if sub.Notes != "" {
		b.WriteString("\nAdditional Notes:\n")
		b.WriteString(sub.Notes)
		b.WriteString("\n")
	}
	b.WriteString(`
Please generate a structured insurance summary in JSON format with the following structure:
{
  "overview": "A 2-3 sentence overview of the client's insurance situation and needs",
  "recommendedCoverages": ["List of 3-5 recommended coverage types or features that might be relevant"],
  "keyRiskFactors": ["List of 2-4 key risk factors or considerations for this client"],
  "savingsOrConsiderations": ["List of 2-4 potential savings opportunities or important considerations"]
}

Remember to include a brief disclaimer in the overview that this is non-binding and for informational purposes only.`)
	return b.String()
}

// parseSummary decodes a model reply and validates that the four required
// shape fields are present with the right types. A reply missing or
// mistyping any of them is rejected wholesale.
func parseSummary(content string) (*lead.Summary, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("summary: model returned empty content")
	}

	var decoded struct {
		Overview                string   `json:"overview"`
		RecommendedCoverages    []string `json:"recommendedCoverages"`
		KeyRiskFactors          []string `json:"keyRiskFactors"`
		SavingsOrConsiderations []string `json:"savingsOrConsiderations"`
		Disclaimer              string   `json:"disclaimer"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &decoded); err != nil {
		return nil, fmt.Errorf("summary: model reply is not valid JSON: %w", err)
	}

	if strings.TrimSpace(decoded.Overview) == "" {
		return nil, errors.New("summary: model reply missing overview")
	}
	if decoded.RecommendedCoverages == nil || decoded.KeyRiskFactors == nil || decoded.SavingsOrConsiderations == nil {
		return nil, errors.New("summary: model reply missing one or more list fields")
	}

	return &lead.Summary{
		Overview:                decoded.Overview,
		RecommendedCoverages:    decoded.RecommendedCoverages,
		KeyRiskFactors:          decoded.KeyRiskFactors,
		SavingsOrConsiderations: decoded.SavingsOrConsiderations,
		Disclaimer:              decoded.Disclaimer,
	}, nil
}

// extractJSON trims any prose or markdown fencing around the outermost JSON
// object. Models occasionally wrap structured output despite instructions.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return content
	}
	return content[start : end+1]
}
