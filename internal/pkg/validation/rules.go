package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Shared patterns
var (
	// letters, spaces, hyphens, apostrophes and periods
	NamePattern = regexp.MustCompile(`^[\p{L}\s\-'.]+$`)

	// optional leading +, then digits, spaces, dashes, parentheses and dots
	PhonePattern = regexp.MustCompile(`^\+?[\d\s\-().]+$`)
)

var validate = validator.New()

// IsEmail checks the syntax of an email address using validator's email rule
func IsEmail(value string) bool {
	return validate.Var(value, "required,email") == nil
}

type stringRule struct {
	check   func(string) bool
	message string
}

// StringValidation evaluates its rules in the order they were added and
// reports the message of the first rule that fails.
type StringValidation struct {
	value    string
	optional bool
	rules    []stringRule
}

// NewStringValidation creates a new string validation. The value is trimmed first.
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{value: strings.TrimSpace(value)}
}

// Optional makes an empty value pass all rules
func (v *StringValidation) Optional() *StringValidation {
	v.optional = true
	return v
}

// Required rejects an empty value
func (v *StringValidation) Required(message string) *StringValidation {
	v.rules = append(v.rules, stringRule{check: func(s string) bool { return s != "" }, message: message})
	return v
}

// WithMinLength sets the minimum length in characters
func (v *StringValidation) WithMinLength(min int, message string) *StringValidation {
	v.rules = append(v.rules, stringRule{check: func(s string) bool { return utf8.RuneCountInString(s) >= min }, message: message})
	return v
}

// WithMaxLength sets the maximum length in characters
func (v *StringValidation) WithMaxLength(max int, message string) *StringValidation {
	v.rules = append(v.rules, stringRule{check: func(s string) bool { return utf8.RuneCountInString(s) <= max }, message: message})
	return v
}

// WithPattern requires the value to match pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp, message string) *StringValidation {
	v.rules = append(v.rules, stringRule{check: pattern.MatchString, message: message})
	return v
}

// WithCheck adds an arbitrary predicate
func (v *StringValidation) WithCheck(check func(string) bool, message string) *StringValidation {
	v.rules = append(v.rules, stringRule{check: check, message: message})
	return v
}

// Validate returns the first failing rule's message, or "" when the value is valid
func (v *StringValidation) Validate() string {
	if v.optional && v.value == "" {
		return ""
	}
	for _, rule := range v.rules {
		if !rule.check(v.value) {
			return rule.message
		}
	}
	return ""
}

// IntRange parses value as a base-10 integer and checks it lies in [min, max].
// It returns the parsed number and "" on success, or the message on failure.
func IntRange(value string, min, max int, message string) (int, string) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < min || n > max {
		return 0, message
	}
	return n, ""
}

// SelectionValidation checks the number of chosen options of a multi-select
type SelectionValidation struct {
	count      int
	min, max   int
	minMessage string
	maxMessage string
}

// NewSelectionValidation creates a validation over a selection of n items
func NewSelectionValidation(selected []string) *SelectionValidation {
	return &SelectionValidation{count: len(selected)}
}

// WithMin requires at least min selections
func (v *SelectionValidation) WithMin(min int, message string) *SelectionValidation {
	v.min, v.minMessage = min, message
	return v
}

// WithMax allows at most max selections
func (v *SelectionValidation) WithMax(max int, message string) *SelectionValidation {
	v.max, v.maxMessage = max, message
	return v
}

// Validate returns the first violated bound's message, or ""
func (v *SelectionValidation) Validate() string {
	if v.min > 0 && v.count < v.min {
		return v.minMessage
	}
	if v.max > 0 && v.count > v.max {
		return v.maxMessage
	}
	return ""
}
