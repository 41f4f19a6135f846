package derive

import (
	"testing"
	"time"

	"github.com/jwlee/teamboard/internal/model"
)

func TestShortName(t *testing.T) {
	cases := []struct{ in, want string }{
		{model.TeamUserName, "DI"},
		{"김철수", "철수"},
		{"이영희", "영희"},
		{"A", "A"},
	}
	for _, tc := range cases {
		if got := ShortName(tc.in); got != tc.want {
			t.Errorf("ShortName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDDayOf(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		deadline string
		text     string
		urgent   bool
	}{
		{"2026-03-15", "D-Day", true},
		{"2026-03-18", "D-3", true},
		{"2026-03-22", "D-7", true},
		{"2026-03-23", "D-8", false},
		{"2026-03-13", "D+2", false},
		{"", "미정", false},
	}
	for _, tc := range cases {
		got := DDayOf(date(tc.deadline), now)
		if got.Text != tc.text || got.Urgent != tc.urgent {
			t.Errorf("DDayOf(%q) = %+v, want {%s %v}", tc.deadline, got, tc.text, tc.urgent)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	start := date("2026-03-01")
	end := date("2026-03-20")
	cases := []struct {
		s, e model.Date
		want string
	}{
		{start, end, "03-01 ~ 03-20"},
		{model.Date{}, model.Date{}, "기간 선택"},
		{start, model.Date{}, "03-01 ~"},
		{model.Date{}, end, "~ 03-20"},
	}
	for _, tc := range cases {
		if got := PeriodLabel(tc.s, tc.e); got != tc.want {
			t.Errorf("PeriodLabel = %q, want %q", got, tc.want)
		}
	}
}

func TestColorCycling(t *testing.T) {
	if UserColor(1) != UserColor(6) {
		t.Error("user colors should cycle with the palette size")
	}
	if UserColor(1) == UserColor(2) {
		t.Error("adjacent ids should differ")
	}
	if ProjectColor(3) != ProjectColor(9) {
		t.Error("project colors should cycle with the palette size")
	}
}
