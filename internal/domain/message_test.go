package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateMessage(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{name: "empty", input: "", err: ErrEmptyMessage},
		{name: "whitespace only", input: " \t\n  ", err: ErrEmptyMessage},
		{name: "trims", input: "  hola  ", want: "hola"},
		{name: "exact limit", input: strings.Repeat("a", 500), want: strings.Repeat("a", 500)},
		{name: "limit after trim", input: "  " + strings.Repeat("a", 500) + "\n", want: strings.Repeat("a", 500)},
		{name: "too long", input: strings.Repeat("a", 501), err: ErrTooLong},
		{name: "multibyte within limit", input: strings.Repeat("é", 500), want: strings.Repeat("é", 500)},
		{name: "multibyte too long", input: strings.Repeat("é", 501), err: ErrTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateMessage(tc.input)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				if got != "" {
					t.Fatalf("expected empty result on error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidationErrorsShareClass(t *testing.T) {
	for _, err := range []error{ErrEmptyMessage, ErrTooLong, ErrMessageNotText} {
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected %v to wrap ErrValidation", err)
		}
	}
	if errors.Is(ErrEmptyMessage, ErrTooLong) {
		t.Fatalf("expected distinct validation reasons")
	}
}
