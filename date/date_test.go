package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-31", want: New(2025, time.January, 31)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "31/01/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): want error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMonthBoundaries(t *testing.T) {
	d := New(2024, time.February, 15)
	if got := d.StartOfMonth(); got != New(2024, time.February, 1) {
		t.Errorf("StartOfMonth = %v", got)
	}
	// 2024 is a leap year.
	if got := d.EndOfMonth(); got != New(2024, time.February, 29) {
		t.Errorf("EndOfMonth = %v", got)
	}
	if got := New(2025, time.January, 31).AddMonths(-1); got != New(2024, time.December, 31) {
		t.Errorf("AddMonths(-1) = %v", got)
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(MustParse("2025-01-01"), MustParse("2025-12-31"))
	if !r.Contains(MustParse("2025-01-01")) || !r.Contains(MustParse("2025-12-31")) {
		t.Error("range boundaries must be inclusive")
	}
	if r.Contains(MustParse("2024-12-31")) || r.Contains(MustParse("2026-01-01")) {
		t.Error("dates outside the range must not be contained")
	}
}

func TestRangeDays(t *testing.T) {
	r := NewRange(MustParse("2025-01-01"), MustParse("2025-01-31"))
	if got := r.Days(); got != 31 {
		t.Errorf("Days() = %d, want 31", got)
	}
}
