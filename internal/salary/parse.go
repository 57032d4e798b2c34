// Package salary normalizes free-text compensation strings into annualized
// numeric ranges. Parsing is deliberately forgiving: malformed input always
// degrades to an unknown range, never an error.
package salary

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Annualization multipliers for period words found in salary text
const (
	workingDaysPerYear  = 230
	workingHoursPerYear = 1840
	monthsPerYear       = 12
)

var (
	// numberPattern extracts numeric tokens tolerant of thousands separators,
	// decimals, scientific notation and a trailing k/K shorthand. Currency
	// symbols are simply not part of the token.
	numberPattern = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?(?:[eE][+-]?\d+)?)\s*([kK])?`)

	dailyPattern   = regexp.MustCompile(`(?i)\b(daily|day|per diem)\b`)
	hourlyPattern  = regexp.MustCompile(`(?i)\b(hourly|hour|hr)\b`)
	monthlyPattern = regexp.MustCompile(`(?i)\b(monthly|month|pcm)\b`)

	thousand = decimal.NewFromInt(1000)
)

// nonNumericDescriptors are common "no salary given" phrases
var nonNumericDescriptors = []string{
	"competitive",
	"negotiable",
	"not specified",
	"not provided",
	"salary not provided",
	"dependent on experience",
	"depends on experience",
	"doe",
}

// token is one extracted number plus whether it carried its own k suffix.
// base keeps the pre-suffix value for the shared-suffix range convention.
type token struct {
	base    decimal.Decimal
	value   decimal.Decimal
	suffixK bool
}

// Parse converts free-text compensation into an annualized (min, max) range.
// Both values are nil when the text carries no usable number. Amounts stay in
// whatever currency the input implies; no conversion is attempted.
func Parse(text string) (*decimal.Decimal, *decimal.Decimal) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	lower := strings.ToLower(trimmed)
	if isNonNumericDescriptor(lower) {
		return nil, nil
	}

	mult := periodMultiplier(lower)
	tokens := extractNumbers(trimmed)
	if len(tokens) == 0 {
		return nil, nil
	}

	if len(tokens) == 1 {
		v := tokens[0].value.Mul(mult).Round(0)
		switch {
		case strings.HasPrefix(lower, "up to"):
			return nil, &v
		case strings.HasPrefix(lower, "from"):
			return &v, nil
		}
		w := v
		return &v, &w
	}

	first, second := tokens[0], tokens[1]

	// Shared-suffix ranges like "80-90k": only the final number carries the k,
	// earlier sub-1000 numbers inherit it.
	if second.suffixK && !first.suffixK && first.base.LessThan(thousand) {
		first.value = first.base.Mul(thousand)
	}

	lo := first.value.Mul(mult).Round(0)
	hi := second.value.Mul(mult).Round(0)
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	return &lo, &hi
}

// isNonNumericDescriptor reports whether the text is a known "no salary"
// phrase with no digits at all.
func isNonNumericDescriptor(lower string) bool {
	if strings.ContainsAny(lower, "0123456789") {
		return false
	}
	for _, descriptor := range nonNumericDescriptors {
		if strings.Contains(lower, descriptor) {
			return true
		}
	}
	return false
}

// periodMultiplier scans for period words and returns the annualization
// factor. Unrecognized or absent periods are treated as annual.
func periodMultiplier(lower string) decimal.Decimal {
	switch {
	case dailyPattern.MatchString(lower):
		return decimal.NewFromInt(workingDaysPerYear)
	case hourlyPattern.MatchString(lower):
		return decimal.NewFromInt(workingHoursPerYear)
	case monthlyPattern.MatchString(lower):
		return decimal.NewFromInt(monthsPerYear)
	default:
		return decimal.NewFromInt(1)
	}
}

// extractNumbers pulls every numeric token out of the text in order.
func extractNumbers(text string) []token {
	matches := numberPattern.FindAllStringSubmatch(text, -1)
	tokens := make([]token, 0, len(matches))
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ",", "")
		base, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		t := token{base: base, value: base, suffixK: m[2] != ""}
		if t.suffixK {
			t.value = base.Mul(thousand)
		}
		tokens = append(tokens, t)
	}
	return tokens
}
