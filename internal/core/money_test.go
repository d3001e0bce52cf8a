package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		in  string
		out string
		err error
	}{
		{"1", "1", nil},
		{"100", "100", nil},
		{"12.5", "12.5", nil},
		{" 2.50 ", "2.5", nil},
		{"-3", "-3", nil},
		{"1e3", "1000", nil},
		{"", "", ErrMissingValue},
		{"   ", "", ErrMissingValue},
		{"abc", "", ErrInvalidValue},
		{"1,000", "", ErrInvalidValue},
		{"1 000", "", ErrInvalidValue},
		{"1.2.3", "", ErrInvalidValue},
		{"1e308", "1e308", nil},
		{"1e-300", "1e-300", nil},
		{"1e400", "", ErrInvalidValue},
		{"-1e400", "", ErrInvalidValue},
		{"1e-400", "", ErrInvalidValue},
		{"1e50000000", "", ErrInvalidValue},
		{"1e-50000000", "", ErrInvalidValue},
		{"Inf", "", ErrInvalidValue},
		{"NaN", "", ErrInvalidValue},
		{"0x10", "", ErrInvalidValue},
	}
	for _, tc := range cases {
		got, err := ParseValue(tc.in)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%q expected %v, got %v", tc.in, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q unexpected error: %v", tc.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestSumIsExact(t *testing.T) {
	items := []FeeItem{
		{Name: "a", Value: decimal.RequireFromString("0.1")},
		{Name: "b", Value: decimal.RequireFromString("0.2")},
	}
	if got := Sum(items); !got.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("expected 0.3, got %s", got)
	}
	if got := Sum(nil); !got.IsZero() {
		t.Fatalf("expected zero for empty list, got %s", got)
	}
}
