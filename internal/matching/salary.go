package matching

import (
	"regexp"
	"strconv"
	"strings"
)

// salaryPatterns are tried in order; the first match wins. Amounts may
// use space or non-breaking-space thousands separators, followed by a
// currency marker or an abbreviated thousands notation.
var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,3}(?:[ \x{00A0}]\d{3})*)[ \x{00A0}]*€`),
	regexp.MustCompile(`(?i)(\d{1,3}(?:[ \x{00A0}]\d{3})*)[ \x{00A0}]*EUR`),
	regexp.MustCompile(`(?i)(\d{1,3}(?:[ \x{00A0}]\d{3})*)[ \x{00A0}]*k€`),
	regexp.MustCompile(`(?i)(\d{1,3}(?:[ \x{00A0}]\d{3})*)[ \x{00A0}]*K`),
}

var separatorReplacer = strings.NewReplacer(" ", "", " ", "")

// ExtractSalary parses an annual salary out of free text such as
// "45 000 € brut" or "45K". The boolean is false when no numeric value
// could be found; callers must treat that as unknown, not as an error.
func ExtractSalary(text string) (float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}

	for _, pattern := range salaryPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		value, err := strconv.ParseFloat(separatorReplacer.Replace(match[1]), 64)
		if err != nil {
			continue
		}

		// Abbreviated notation: "45K" and "45 k€" mean thousands.
		if strings.Contains(strings.ToLower(text), "k") {
			value *= 1000
		}
		return value, true
	}

	return 0, false
}
