package validation

import (
	"strconv"
	"testing"
)

func TestStringValidationFirstFailingRuleWins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty hits min first", value: "", want: "too short"},
		{name: "too long", value: "abcdefghijk", want: "too long"},
		{name: "bad characters", value: "ab1", want: "bad chars"},
		{name: "valid", value: "Anna", want: ""},
		{name: "surrounding whitespace is trimmed", value: "  Li  ", want: ""},
		{name: "accented letters count as letters", value: "Zoë", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewStringValidation(tt.value).
				WithMinLength(2, "too short").
				WithMaxLength(10, "too long").
				WithPattern(NamePattern, "bad chars").
				Validate()
			if got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringValidationOptional(t *testing.T) {
	if msg := NewStringValidation("").Optional().WithMaxLength(3, "long").Validate(); msg != "" {
		t.Errorf("empty optional value should pass, got %q", msg)
	}
	if msg := NewStringValidation("abcd").Optional().WithMaxLength(3, "long").Validate(); msg != "long" {
		t.Errorf("non-empty optional value should be checked, got %q", msg)
	}
}

func TestIntRange(t *testing.T) {
	for _, value := range []string{"17", "26", "", "abc", "20.5", "-18"} {
		if _, msg := IntRange(value, 18, 25, "range"); msg != "range" {
			t.Errorf("IntRange(%q) should fail", value)
		}
	}
	for want := 18; want <= 25; want++ {
		n, msg := IntRange(" "+strconv.Itoa(want)+" ", 18, 25, "range")
		if msg != "" || n != want {
			t.Errorf("IntRange(%d) = %d, %q", want, n, msg)
		}
	}
}

func TestPhonePattern(t *testing.T) {
	valid := []string{"+32 470 12 34 56", "0470123456", "(03) 123.45.67", "0470-12-34-56"}
	for _, v := range valid {
		if !PhonePattern.MatchString(v) {
			t.Errorf("%q should match", v)
		}
	}
	invalid := []string{"0470 12a456", "32+470123456", "0470_123456"}
	for _, v := range invalid {
		if PhonePattern.MatchString(v) {
			t.Errorf("%q should not match", v)
		}
	}
}

func TestSelectionValidation(t *testing.T) {
	if msg := NewSelectionValidation(nil).WithMin(1, "pick one").Validate(); msg != "pick one" {
		t.Errorf("empty selection: %q", msg)
	}
	if msg := NewSelectionValidation([]string{"a", "b", "c"}).WithMax(2, "max two").Validate(); msg != "max two" {
		t.Errorf("over max: %q", msg)
	}
	if msg := NewSelectionValidation([]string{"a", "b"}).WithMin(1, "x").WithMax(2, "y").Validate(); msg != "" {
		t.Errorf("within bounds: %q", msg)
	}
}

func TestIsEmail(t *testing.T) {
	if !IsEmail("anna@stepout.be") {
		t.Error("valid email rejected")
	}
	for _, v := range []string{"", "anna", "anna@", "@stepout.be"} {
		if IsEmail(v) {
			t.Errorf("%q accepted", v)
		}
	}
}
