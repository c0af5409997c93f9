package timeutil

import (
	"testing"
	"time"
)

func TestParseDateRoundTrip(t *testing.T) {
	parsed, err := ParseDate("2026-01-30")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if got := FormatDate(parsed); got != "2026-01-30" {
		t.Fatalf("FormatDate = %q, want 2026-01-30", got)
	}
}

func TestParseKickoff(t *testing.T) {
	fixedNow := time.Date(2026, 1, 30, 10, 30, 0, 0, time.UTC)
	now := func() time.Time { return fixedNow }

	tests := []struct {
		name   string
		raw    string
		offset int
		want   time.Time
	}{
		{
			name: "pm meridiem",
			raw:  "2026-01-30, 07:00 PM",
			want: time.Date(2026, 1, 30, 19, 0, 0, 0, time.UTC),
		},
		{
			name: "am meridiem",
			raw:  "2026-01-30, 09:15 AM",
			want: time.Date(2026, 1, 30, 9, 15, 0, 0, time.UTC),
		},
		{
			name: "midnight is twelve am",
			raw:  "2026-01-30, 12:30 AM",
			want: time.Date(2026, 1, 30, 0, 30, 0, 0, time.UTC),
		},
		{
			name: "noon stays twelve pm",
			raw:  "2026-01-30, 12:05 PM",
			want: time.Date(2026, 1, 30, 12, 5, 0, 0, time.UTC),
		},
		{
			name: "no meridiem assumes 24h clock",
			raw:  "2026-01-30 21:45",
			want: time.Date(2026, 1, 30, 21, 45, 0, 0, time.UTC),
		},
		{
			name: "extra whitespace and trailing punctuation",
			raw:  "  2026-01-30,   07:00   PM.  ",
			want: time.Date(2026, 1, 30, 19, 0, 0, 0, time.UTC),
		},
		{
			name: "already iso",
			raw:  "2026-01-30T19:00:00Z",
			want: time.Date(2026, 1, 30, 19, 0, 0, 0, time.UTC),
		},
		{
			name:   "fixed hour offset applied",
			raw:    "2026-01-30, 07:00 PM",
			offset: 3,
			want:   time.Date(2026, 1, 30, 22, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseKickoff(tc.raw, tc.offset, now)
			if !got.Equal(tc.want) {
				t.Fatalf("ParseKickoff(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseKickoffFailsSoftToNow(t *testing.T) {
	fixedNow := time.Date(2026, 1, 30, 10, 30, 0, 0, time.UTC)
	now := func() time.Time { return fixedNow }

	for _, raw := range []string{"", "soon", "2026-01-30", "01/30/2026 7pm", "2026-01-30, nonsense"} {
		if got := ParseKickoff(raw, 0, now); !got.Equal(fixedNow) {
			t.Errorf("ParseKickoff(%q) = %v, want fallback %v", raw, got, fixedNow)
		}
	}
}
