package privacy

import "regexp"

// GetDefaultRules returns the built-in detection rule set. Declaration
// order is the tie-break order for matches that share a start offset, so
// rules must not be reordered without intent.
func GetDefaultRules() []DetectionRule {
	return []DetectionRule{
		{
			Name:     "SSN",
			Pattern:  regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			Severity: SeverityDanger,
		},
		{
			Name:     "Credit Card",
			Pattern:  regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{4}\b`),
			Severity: SeverityDanger,
		},
		{
			Name:     "Email",
			Pattern:  regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			Severity: SeverityCaution,
		},
		{
			// A phone number must not continue a longer digit run.
			Name:     "Phone Number",
			Pattern:  regexp.MustCompile(`(?:^|[^\d])(\(?\d{3}\)?[ .-]?\d{3}[ .-]?\d{4})\b`),
			Severity: SeverityCaution,
			Group:    1,
		},
		{
			Name:     "Street Address",
			Pattern:  regexp.MustCompile(`\b\d+\s+(?:[A-Z][a-z]+\s+)+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd)\b`),
			Severity: SeverityCaution,
		},
		{
			Name:     "Account Number",
			Pattern:  regexp.MustCompile(`(?i)account\s*#?\s*\d{8,}`),
			Severity: SeverityDanger,
		},
		{
			Name:     "Passport Number",
			Pattern:  regexp.MustCompile(`\b[A-Z]{1,2}\d{6,9}\b`),
			Severity: SeverityDanger,
		},
		{
			// Any dotted quad counts; octet ranges are not validated.
			Name:     "IP Address",
			Pattern:  regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
			Severity: SeverityCaution,
		},
	}
}
