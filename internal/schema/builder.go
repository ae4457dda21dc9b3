// internal/schema/builder.go
package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/taxonomy-admin/internal/models"
)

// Kind is the coercion applied to a raw value before checks run.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

type CheckOp string

const (
	OpRequired  CheckOp = "required"
	OpEmail     CheckOp = "email"
	OpURL       CheckOp = "url"
	OpMinLength CheckOp = "minLength"
	OpMaxLength CheckOp = "maxLength"
	OpMinValue  CheckOp = "minValue"
	OpMaxValue  CheckOp = "maxValue"
	OpPattern   CheckOp = "pattern"
	OpOneOf     CheckOp = "oneOf"
	OpEachOf    CheckOp = "eachOf"
)

// Check is one constraint of a field schema. Checks run in slice order and
// every failing one yields an issue.
type Check struct {
	Op      CheckOp   `json:"op"`
	Length  *int      `json:"length,omitempty"`
	Limit   *float64  `json:"limit,omitempty"`
	Pattern string    `json:"pattern,omitempty"`
	Members []string  `json:"members,omitempty"`
	Code    IssueCode `json:"code"`

	re *regexp.Regexp
}

// FieldSchema is the validator derived from one field definition.
type FieldSchema struct {
	Name         string          `json:"name"`
	Label        string          `json:"label"`
	DataType     models.DataType `json:"dataType"`
	Kind         Kind            `json:"kind"`
	Required     bool            `json:"required"`
	Checks       []Check         `json:"checks"`
	ConfigErrors []string        `json:"configErrors,omitempty"`
}

var formats = validator.New()

// BuildFieldSchema dispatches on the declared data type and returns the
// ordered constraint list for the field.
func BuildFieldSchema(field models.FieldDefinition) *FieldSchema {
	s := &FieldSchema{
		Name:     field.FieldName,
		Label:    field.Label(),
		DataType: field.DataType,
		Kind:     KindString,
		Required: field.IsRequired,
	}
	rules := field.ValidationRules
	if rules == nil {
		rules = &models.ValidationRules{}
	}
	props := field.FieldProperties
	if props == nil {
		props = &models.FieldProperties{}
	}

	switch field.DataType {
	case models.DataTypeNumber, models.DataTypeCurrency, models.DataTypeDecimal, models.DataTypePercentage:
		s.Kind = KindNumber
		s.addRequired(CodeRequired)
		s.addValue(OpMinValue, rules.MinValue)
		s.addValue(OpMaxValue, rules.MaxValue)
		s.addValue(OpMinValue, props.Min)
		s.addValue(OpMaxValue, props.Max)

	case models.DataTypeEmail:
		s.addRequired(CodeRequired)
		s.Checks = append(s.Checks, Check{Op: OpEmail, Code: CodeInvalidEmail})
		s.addLength(rules)

	case models.DataTypeURL:
		s.addRequired(CodeRequired)
		s.Checks = append(s.Checks, Check{Op: OpURL, Code: CodeInvalidURL})
		s.addLength(rules)

	case models.DataTypePhone:
		s.addRequired(CodeRequired)
		s.addPattern(rules.Pattern)
		s.addLength(rules)

	case models.DataTypeDate, models.DataTypeDateTime, models.DataTypeFile, models.DataTypeImage:
		s.addRequired(CodeRequired)

	case models.DataTypeBoolean:
		s.Kind = KindBoolean

	case models.DataTypeDropdown:
		s.addRequired(CodeRequired)
		if members := field.OptionValues(); len(members) > 0 {
			s.Checks = append(s.Checks, Check{Op: OpOneOf, Members: members, Code: CodeInvalidOption})
		}

	case models.DataTypeMultiSelect:
		s.addRequired(CodeSelectionRequired)
		if members := field.OptionValues(); len(members) > 0 {
			s.Checks = append(s.Checks, Check{Op: OpEachOf, Members: members, Code: CodeInvalidSelection})
		}

	default:
		// Text, TextArea and anything unrecognized
		s.addRequired(CodeRequired)
		s.addLength(rules)
		s.addPattern(rules.Pattern)
	}

	if s.Checks == nil {
		s.Checks = []Check{}
	}
	return s
}

func (s *FieldSchema) addRequired(code IssueCode) {
	if s.Required {
		s.Checks = append(s.Checks, Check{Op: OpRequired, Code: code})
	}
}

func (s *FieldSchema) addValue(op CheckOp, limit *float64) {
	if limit == nil {
		return
	}
	code := CodeTooSmall
	if op == OpMaxValue {
		code = CodeTooBig
	}
	v := *limit
	s.Checks = append(s.Checks, Check{Op: op, Limit: &v, Code: code})
}

func (s *FieldSchema) addLength(rules *models.ValidationRules) {
	if rules.MinLength != nil {
		n := *rules.MinLength
		s.Checks = append(s.Checks, Check{Op: OpMinLength, Length: &n, Code: CodeTooShort})
	}
	if rules.MaxLength != nil {
		n := *rules.MaxLength
		s.Checks = append(s.Checks, Check{Op: OpMaxLength, Length: &n, Code: CodeTooLong})
	}
}

func (s *FieldSchema) addPattern(pattern string) {
	if pattern == "" {
		return
	}
	re, err := CompilePattern(pattern)
	if err != nil {
		s.ConfigErrors = append(s.ConfigErrors, err.Error())
		return
	}
	s.Checks = append(s.Checks, Check{Op: OpPattern, Pattern: pattern, Code: CodeInvalidFormat, re: re})
}

// CompilePattern compiles a validationRules.pattern value.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Parse checks one raw value. present distinguishes an absent key from an
// explicit value. keep reports whether the coerced value belongs in the
// parsed data.
func (s *FieldSchema) Parse(raw any, present bool) (value any, keep bool, issues []Issue) {
	str := ""
	if present {
		str = models.Stringify(raw)
	}

	if str == "" && !s.Required {
		if present && s.Kind == KindString {
			return str, true, nil
		}
		if present && s.Kind == KindBoolean {
			return false, true, nil
		}
		return nil, false, nil
	}

	switch s.Kind {
	case KindBoolean:
		return coerceBool(raw, str), true, nil

	case KindNumber:
		if str == "" {
			return nil, false, s.run(0, "", true)
		}
		n, ok := coerceNumber(raw, str)
		if !ok {
			return nil, false, []Issue{newIssue(s, CodeNotANumber, "")}
		}
		return n, true, s.run(n, str, false)

	default:
		return str, true, s.run(0, str, str == "")
	}
}

func (s *FieldSchema) run(n float64, str string, empty bool) []Issue {
	var issues []Issue
	for _, c := range s.Checks {
		if failed, param := c.fails(n, str, empty); failed {
			issues = append(issues, newIssue(s, c.Code, param))
		}
	}
	return issues
}

func (c Check) fails(n float64, str string, empty bool) (bool, string) {
	switch c.Op {
	case OpRequired:
		return empty, ""
	case OpMinValue:
		return !empty && n < *c.Limit, formatNumber(*c.Limit)
	case OpMaxValue:
		return !empty && n > *c.Limit, formatNumber(*c.Limit)
	case OpEmail:
		return formats.Var(str, "email") != nil, ""
	case OpURL:
		return formats.Var(str, "url") != nil, ""
	case OpMinLength:
		return utf8.RuneCountInString(str) < *c.Length, strconv.Itoa(*c.Length)
	case OpMaxLength:
		return utf8.RuneCountInString(str) > *c.Length, strconv.Itoa(*c.Length)
	case OpPattern:
		return c.re != nil && !c.re.MatchString(str), ""
	case OpOneOf:
		return str != "" && !contains(c.Members, str), strings.Join(c.Members, ", ")
	case OpEachOf:
		for _, token := range strings.Split(str, ",") {
			if token != "" && !contains(c.Members, token) {
				return true, ""
			}
		}
	}
	return false, ""
}

func coerceNumber(raw any, str string) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	trimmed := strings.TrimSpace(str)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func coerceBool(raw any, str string) bool {
	if b, ok := raw.(bool); ok {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "false", "0", "off", "no":
		return false
	}
	return true
}

func contains(members []string, v string) bool {
	for _, m := range members {
		if m == v {
			return true
		}
	}
	return false
}
