package lead

import "time"

// InsuranceTypes is the fixed set of accepted values for the insuranceType field.
var InsuranceTypes = []string{"Auto", "Home", "Renters", "Life", "Health", "Business"}

// Submission represents a lead form submission from the marketing site.
// Field values are untrusted until Validate has run; afterwards every
// present string field is sanitized and required fields are non-empty.
type Submission struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Location        string `json:"location"`
	InsuranceType   string `json:"insuranceType"`
	CurrentProvider string `json:"currentProvider,omitempty"`
	CurrentPremium  string `json:"currentPremium,omitempty"`
	CoverageNeeds   string `json:"coverageNeeds"`
	Notes           string `json:"notes,omitempty"`
	RecaptchaToken  string `json:"recaptchaToken,omitempty"`
}

// Summary is the AI-generated preliminary insurance summary attached to a
// lead. It is best-effort: absence is a valid, expected state.
type Summary struct {
	Overview                string   `json:"overview"`
	RecommendedCoverages    []string `json:"recommendedCoverages"`
	KeyRiskFactors          []string `json:"keyRiskFactors"`
	SavingsOrConsiderations []string `json:"savingsOrConsiderations"`
	Disclaimer              string   `json:"disclaimer,omitempty"`
}

// SuccessResponse is the payload returned for an accepted submission.
type SuccessResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	HasSummary bool     `json:"hasSummary"`
	Summary    *Summary `json:"summary,omitempty"`
	EmailError string   `json:"emailError,omitempty"`
}

// ErrorResponse is the payload returned for a rejected submission. Error is
// a machine-readable code; Details carries field-level validation messages.
type ErrorResponse struct {
	Status  string            `json:"status"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// StoredLead is an accepted submission held in the in-process repository.
type StoredLead struct {
	ID         string `json:"id"`
	Submission
	HasSummary bool      `json:"hasSummary"`
	CreatedAt  time.Time `json:"created_at"`
}
