package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// regexMatchTimeout bounds a single regex match against user-authored
// patterns. Go regexps run in linear time, so this is a backstop for very
// large inputs rather than catastrophic backtracking.
const regexMatchTimeout = time.Second

// anyFields is the fan-out set for the "any" pseudo-field.
var anyFields = []types.RuleField{
	types.FieldTitle,
	types.FieldDescription,
	types.FieldCompany,
	types.FieldLocation,
	types.FieldSalary,
	types.FieldSource,
}

// fieldText resolves a scalar rule field to the listing text it reads.
// Absent attributes resolve to the empty string.
func fieldText(l *types.Listing, field types.RuleField) string {
	switch field {
	case types.FieldTitle:
		return l.Title
	case types.FieldDescription:
		return l.Description
	case types.FieldCompany:
		return l.Company
	case types.FieldLocation:
		return l.Location
	case types.FieldSalary:
		return l.SalaryText
	case types.FieldSource:
		return l.Source
	case types.FieldSkills:
		return strings.Join(l.Skills, " ")
	case types.FieldSuitabilityScore:
		return strconv.Itoa(l.SuitabilityScore)
	default:
		return ""
	}
}

// evalCondition evaluates one condition against a listing. Malformed input
// (bad regex, unparsable threshold) never matches; the returned diagnostic
// carries enough detail for the caller's observability layer.
func evalCondition(l *types.Listing, c types.Condition) (bool, string) {
	switch c.Operator {
	case types.OpIsTrue, types.OpIsFalse:
		// Boolean operators only apply to is_remote.
		if c.Field != types.FieldIsRemote {
			return false, ""
		}
		return l.IsRemote == (c.Operator == types.OpIsTrue), ""

	case types.OpGreater, types.OpGreaterOrEqual, types.OpLess,
		types.OpLessOrEqual, types.OpNumberEqual, types.OpNumberNotEqual:
		// Numeric operators only apply to suitability_score.
		if c.Field != types.FieldSuitabilityScore {
			return false, ""
		}
		threshold, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			return false, fmt.Sprintf("unparsable numeric threshold %q", c.Value)
		}
		return compareInt(l.SuitabilityScore, c.Operator, threshold), ""
	}

	if c.Field == types.FieldAny {
		var diag string
		for _, field := range anyFields {
			matched, d := evalText(fieldText(l, field), c)
			if d != "" && diag == "" {
				diag = d
			}
			if matched {
				return true, diag
			}
		}
		return false, diag
	}
	if c.Field == types.FieldIsRemote {
		// Text operators cannot read the remote flag.
		return false, ""
	}
	return evalText(fieldText(l, c.Field), c)
}

// evalText applies a text operator to the resolved field value.
func evalText(value string, c types.Condition) (bool, string) {
	target, probe := value, c.Value
	if !c.CaseSensitive {
		target = strings.ToLower(value)
		probe = strings.ToLower(c.Value)
	}

	switch c.Operator {
	case types.OpContains:
		return strings.Contains(target, probe), ""
	case types.OpNotContains:
		return !strings.Contains(target, probe), ""
	case types.OpEquals:
		return target == probe, ""
	case types.OpNotEquals:
		return target != probe, ""
	case types.OpStartsWith:
		return strings.HasPrefix(target, probe), ""
	case types.OpEndsWith:
		return strings.HasSuffix(target, probe), ""
	case types.OpRegex:
		return matchRegex(c.Value, value, c.CaseSensitive)
	default:
		return false, ""
	}
}

// matchRegex compiles and runs a user-authored pattern with a match timeout.
// Compilation failures and timeouts both evaluate to no-match.
func matchRegex(pattern, value string, caseSensitive bool) (bool, string) {
	compilable := pattern
	if !caseSensitive {
		compilable = "(?i)" + pattern
	}
	re, err := regexp.Compile(compilable)
	if err != nil {
		return false, fmt.Sprintf("invalid regex %q: %v", pattern, err)
	}

	done := make(chan bool, 1)
	go func() {
		done <- re.MatchString(value)
	}()
	select {
	case matched := <-done:
		return matched, ""
	case <-time.After(regexMatchTimeout):
		// The goroutine finishes on its own and the buffered channel is
		// collected with it.
		return false, fmt.Sprintf("regex %q timed out after %s", pattern, regexMatchTimeout)
	}
}

func compareInt(score int, op types.RuleOperator, threshold int) bool {
	switch op {
	case types.OpGreater:
		return score > threshold
	case types.OpGreaterOrEqual:
		return score >= threshold
	case types.OpLess:
		return score < threshold
	case types.OpLessOrEqual:
		return score <= threshold
	case types.OpNumberEqual:
		return score == threshold
	case types.OpNumberNotEqual:
		return score != threshold
	default:
		return false
	}
}
