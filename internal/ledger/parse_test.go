package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/calburn/internal/model"
)

func TestParseCalories(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"800", 800, false},
		{" 120 ", 120, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"12.5", 0, true},
		{"lots", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCalories(tt.in)
		if tt.wantErr {
			if !errors.Is(err, model.ErrValidation) {
				t.Errorf("ParseCalories(%q) err = %v, want ErrValidation", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseCalories(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC-4", -4*3600)
	now := time.Date(2025, 6, 15, 18, 45, 0, 0, loc)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", now},
		{"2025-06-14 12:30", time.Date(2025, 6, 14, 12, 30, 0, 0, loc)},
		{"2025-06-14 12:30:15", time.Date(2025, 6, 14, 12, 30, 15, 0, loc)},
		{"2025-06-14T07:05", time.Date(2025, 6, 14, 7, 5, 0, 0, loc)},
		{"2025-06-14", time.Date(2025, 6, 14, 0, 0, 0, 0, loc)},
		{"08:15", time.Date(2025, 6, 15, 8, 15, 0, 0, loc)},
		{"2025-06-14T12:00:00Z", time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in, now, loc)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"yesterday", "2025-13-01", "25:00", "2025-06-31 10:00"} {
		if _, err := ParseTimestamp(bad, now, loc); !errors.Is(err, model.ErrValidation) {
			t.Errorf("ParseTimestamp(%q) err = %v, want ErrValidation", bad, err)
		}
	}
}
