package model

import "testing"

func TestOfficialVotesExcludesHandVotes(t *testing.T) {
	a := Artist{OnlineVotes: 30, FinancialVotes: 12, HandVotes: 100}
	if got := a.OfficialVotes(); got != 42 {
		t.Errorf("OfficialVotes() = %d, want 42", got)
	}
}

func TestValidManualMethod(t *testing.T) {
	for _, m := range []string{ManualMethodCash, ManualMethodBank, ManualMethodMobileMoney} {
		if !ValidManualMethod(m) {
			t.Errorf("ValidManualMethod(%q) = false", m)
		}
	}
	for _, m := range []string{"", "card", "CASH", "accountpe"} {
		if ValidManualMethod(m) {
			t.Errorf("ValidManualMethod(%q) = true", m)
		}
	}
}
