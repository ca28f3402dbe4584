package handler

import (
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in       string
		wantDays int // 0 means the zero time (no cutoff)
	}{
		{"7d", 7},
		{"30d", 30},
		{"90d", 90},
		{"", 30},
		{"all", 0},
		{"nonsense", 30},
	}
	for _, tt := range tests {
		t.Run("range="+tt.in, func(t *testing.T) {
			got := parseRange(tt.in)
			if tt.wantDays == 0 {
				if !got.IsZero() {
					t.Fatalf("parseRange(%q) = %v, want zero time", tt.in, got)
				}
				return
			}
			want := time.Now().UTC().AddDate(0, 0, -tt.wantDays)
			if diff := want.Sub(got); diff < -time.Minute || diff > time.Minute {
				t.Errorf("parseRange(%q) = %v, want ~%v", tt.in, got, want)
			}
		})
	}
}
