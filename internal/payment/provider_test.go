package payment

import (
	"regexp"
	"testing"
)

func TestVotesFor(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		unitPrice int64
		want      int64
	}{
		{"exact multiple", 500, 100, 5},
		{"rounds down", 250, 100, 2},
		{"below one vote", 99, 100, 0},
		{"single vote", 100, 100, 1},
		{"zero amount", 0, 100, 0},
		{"negative amount", -100, 100, 0},
		{"zero unit price", 500, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VotesFor(tt.amount, tt.unitPrice); got != tt.want {
				t.Errorf("VotesFor(%d, %d) = %d, want %d", tt.amount, tt.unitPrice, got, tt.want)
			}
		})
	}
}

func TestNewReference(t *testing.T) {
	re := regexp.MustCompile(`^VOTE-17-[0-9a-f]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref, err := NewReference(17)
		if err != nil {
			t.Fatalf("NewReference: %v", err)
		}
		if !re.MatchString(ref) {
			t.Fatalf("reference %q does not match expected format", ref)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[ref] = true
	}
}
