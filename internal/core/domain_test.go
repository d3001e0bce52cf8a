package core

import (
	"errors"
	"testing"
	"time"
)

func TestRowValidate(t *testing.T) {
	cases := []struct {
		row Row
		err error
	}{
		{Row{ID: "a", Name: "Rent", Value: "100"}, nil},
		{Row{ID: "a", Name: "  ", Value: "100"}, ErrEmptyName},
		{Row{ID: "a", Name: "Rent", Value: ""}, ErrMissingValue},
		{Row{ID: "a", Name: "Rent", Value: "ten"}, ErrInvalidValue},
	}
	for i, tc := range cases {
		err := tc.row.Validate()
		if tc.err == nil && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if tc.err != nil && !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestRowItemTrimsName(t *testing.T) {
	it, err := Row{Name: " Water ", Value: "20"}.Item()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if it.Name != "Water" || it.Value.String() != "20" {
		t.Fatalf("unexpected item %+v", it)
	}
}

func TestTemplateValidate(t *testing.T) {
	if err := (Template{ID: "KL", Items: []TemplateItem{{Name: "Rent"}}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Template{ID: ""}).Validate(); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if err := (Template{ID: "KL", Items: []TemplateItem{{Name: ""}}}).Validate(); err == nil {
		t.Fatalf("expected error for empty item name")
	}
}

func TestPeriodLabel(t *testing.T) {
	cases := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC), "T10/2026"},
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "T3/2026"},
		{time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), "T1/2025"},
	}
	for _, tc := range cases {
		if got := PeriodLabel(tc.t); got != tc.want {
			t.Fatalf("PeriodLabel(%v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

func TestSummarizeAndShowTotal(t *testing.T) {
	items := []FeeItem{
		mustItem(t, "a", "100"),
		mustItem(t, "b", "250"),
	}
	s := Summarize(items, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	if s.Display != "350" || s.Period != "T10/2026" {
		t.Fatalf("unexpected summary %+v", s)
	}
	if !ShowTotal(s.Display) {
		t.Fatalf("expected total to be shown")
	}
	if ShowTotal("") || ShowTotal("0") {
		t.Fatalf("empty and zero totals must be hidden")
	}
}

func mustItem(t *testing.T, name, value string) FeeItem {
	t.Helper()
	it, err := Row{Name: name, Value: value}.Item()
	if err != nil {
		t.Fatalf("item %s: %v", name, err)
	}
	return it
}
