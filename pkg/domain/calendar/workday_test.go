package calendar_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
)

func TestIsWorkDay(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-01-07", true},  // Sunday
		{"2024-01-08", true},  // Monday
		{"2024-01-11", true},  // Thursday
		{"2024-01-12", false}, // Friday
		{"2024-01-13", false}, // Saturday
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, ok := calendar.ParseDate(tt.date)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tt.date)
			}
			if got := calendar.IsWorkDay(d); got != tt.want {
				t.Errorf("IsWorkDay(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestCountWorkDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"full week", "2024-01-07", "2024-01-13", 5},
		{"two weeks", "2024-01-07", "2024-01-20", 10},
		{"single work day", "2024-01-09", "2024-01-09", 1},
		{"single friday", "2024-01-12", "2024-01-12", 0},
		{"weekend only", "2024-01-12", "2024-01-13", 0},
		{"start after end", "2024-01-10", "2024-01-09", 0},
		{"invalid start", "not-a-date", "2024-01-09", 0},
		{"invalid end", "2024-01-09", "", 0},
		{"timestamp input", "2024-01-07T09:30:00Z", "2024-01-08", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calendar.CountWorkDays(tt.start, tt.end); got != tt.want {
				t.Errorf("CountWorkDays(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestAddWorkDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		n     int
		want  string
	}{
		{"one day on a work day", "2024-01-09", 1, "2024-01-09"},
		{"one day from friday snaps to sunday", "2024-01-12", 1, "2024-01-14"},
		{"one day from saturday snaps to sunday", "2024-01-13", 1, "2024-01-14"},
		{"full week", "2024-01-07", 5, "2024-01-11"},
		{"crosses weekend", "2024-01-11", 2, "2024-01-14"},
		{"six days", "2024-01-07", 6, "2024-01-14"},
		{"zero returns start", "2024-01-12", 0, "2024-01-12"},
		{"negative returns start", "2024-01-12", -3, "2024-01-12"},
		{"invalid start unchanged", "garbage", 3, "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calendar.AddWorkDays(tt.start, tt.n); got != tt.want {
				t.Errorf("AddWorkDays(%q, %d) = %q, want %q", tt.start, tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "05.03.2024"},
		{"", "-"},
		{"   ", "-"},
		{"2024-12-31T23:00:00+02:00", "31.12.2024"},
		{"soon", "soon"},
	}

	for _, tt := range tests {
		if got := calendar.FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiffDays(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-03", 3},
		{"2024-01-03", "2024-01-01", 3},
		{"2024-01-01", "2024-01-01", 1},
		{"2024-02-28", "2024-03-01", 3},
		{"bad", "2024-01-01", 0},
	}

	for _, tt := range tests {
		if got := calendar.DiffDays(tt.a, tt.b); got != tt.want {
			t.Errorf("DiffDays(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClocks(t *testing.T) {
	fixed := calendar.Fixed("2024-05-01")
	if got := calendar.Format(fixed.Today()); got != "2024-05-01" {
		t.Errorf("FixedClock.Today() = %s, want 2024-05-01", got)
	}

	late := calendar.ClockFunc(func() time.Time {
		return time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	})
	if got := late.Today(); got.Hour() != 0 || got.Day() != 1 {
		t.Errorf("ClockFunc.Today() = %v, want midnight of May 1", got)
	}

	sys := calendar.NewSystemClock("Nowhere/Invalid")
	if sys.Location != time.Local {
		t.Errorf("NewSystemClock(invalid) location = %v, want Local", sys.Location)
	}
	if got := sys.Today(); got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("SystemClock.Today() = %v, want midnight", got)
	}
}
