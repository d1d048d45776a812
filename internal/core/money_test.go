package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"0", 0, true},
		{"0.5", 50, true},
		{"12.344", 1234, true}, // rounds down
		{"12.345", 1235, true}, // rounds half up
		{"12.346", 1235, true}, // rounds up
		{" 7.10 ", 710, true},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"12.3a", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("%q: got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{50, 5000},
		{12.34, 1234},
		{0.1, 10},
		{999.995, 100000}, // rounds half up
		{0, 0},
	}
	for _, tc := range cases {
		if got := CentsFromFloat(tc.in); got != tc.want {
			t.Fatalf("%v: got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyFloat(t *testing.T) {
	if got := (Money{Cents: 1234}).Float(); got != 12.34 {
		t.Fatalf("got %v", got)
	}
}
