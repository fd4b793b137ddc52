package lead

import (
	"regexp"
	"strings"
)

// emailPattern accepts a simple local@domain.tld shape. Anything stricter
// rejects real addresses; deliverability is verified by the notification
// email anyway.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks a submission field by field. It returns either a
// normalized copy with every present string field sanitized, or a non-empty
// field-to-message map, never both.
func Validate(sub Submission) (*Submission, map[string]string) {
	errs := make(map[string]string)

	if strings.TrimSpace(sub.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}

	if strings.TrimSpace(sub.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(strings.TrimSpace(sub.Email)) {
		errs["email"] = "Invalid email format"
	}

	if strings.TrimSpace(sub.Location) == "" {
		errs["location"] = "Location is required"
	}

	if !validInsuranceType(sub.InsuranceType) {
		errs["insuranceType"] = "Valid insurance type is required"
	}

	if strings.TrimSpace(sub.CoverageNeeds) == "" {
		errs["coverageNeeds"] = "Coverage needs description is required"
	}

	if len(errs) > 0 {
		return nil, errs
	}

	normalized := Submission{
		FullName:       SanitizeString(sub.FullName),
		Email:          SanitizeString(sub.Email),
		Location:       SanitizeString(sub.Location),
		InsuranceType:  sub.InsuranceType,
		CoverageNeeds:  SanitizeString(sub.CoverageNeeds),
		RecaptchaToken: sub.RecaptchaToken,
	}
	if sub.Phone != "" {
		normalized.Phone = SanitizeString(sub.Phone)
	}
	if sub.CurrentProvider != "" {
		normalized.CurrentProvider = SanitizeString(sub.CurrentProvider)
	}
	if sub.CurrentPremium != "" {
		normalized.CurrentPremium = SanitizeString(sub.CurrentPremium)
	}
	if sub.Notes != "" {
		normalized.Notes = SanitizeString(sub.Notes)
	}

	return &normalized, nil
}

func validInsuranceType(t string) bool {
	for _, v := range InsuranceTypes {
		if t == v {
			return true
		}
	}
	return false
}
