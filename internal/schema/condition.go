// internal/schema/condition.go
package schema

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/javajoker/taxonomy-admin/internal/models"
)

// EvaluateCondition reports whether a field guarded by rule is visible for the
// given form values. A missing rule or dependency means always visible, and
// an unrecognized operator is permissive.
func EvaluateCondition(rule *models.ConditionalRule, values models.FormValues) bool {
	if rule == nil || rule.ShowIf == "" {
		return true
	}

	depValue := values.String(rule.ShowIf)
	target := rule.Value
	op := rule.Operator
	if op == "" {
		op = models.OperatorEquals
	}

	switch op {
	case models.OperatorEquals:
		return fold(depValue) == fold(target)
	case models.OperatorNotEquals:
		return fold(depValue) != fold(target)
	case models.OperatorContains:
		return strings.Contains(fold(depValue), fold(target))
	case models.OperatorGreaterThan:
		// NaN compares false both ways.
		return ParseFloat(depValue) > ParseFloat(target)
	case models.OperatorLessThan:
		return ParseFloat(depValue) < ParseFloat(target)
	default:
		return true
	}
}

// Casers keep state, so each comparison gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseFloat reads the longest numeric prefix of s after leading whitespace,
// returning NaN when there is none.
func ParseFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if m == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(m, "+") {
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// ErrRange still yields the signed infinity.
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
