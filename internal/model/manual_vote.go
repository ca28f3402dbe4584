package model

import "time"

// Accepted out-of-band payment methods for manual vote entries.
const (
	ManualMethodCash        = "cash"
	ManualMethodBank        = "bank_transfer"
	ManualMethodMobileMoney = "mobile_money"
)

// ManualVote is an immutable ledger entry created when an admin credits
// financial votes for an out-of-band payment (cash, bank transfer or
// mobile money received outside the gateway). Entries are never updated;
// they are deleted only when their artist is deleted.
//
// Fields:
//
//	ID            – primary key identifier.
//	ArtistID      – artist credited.
//	AdminUserID   – admin who entered the adjustment.
//	Amount        – amount received in currency minor units.
//	VotesAdded    – votes credited by this entry.
//	PaymentMethod – cash, bank_transfer or mobile_money.
//	Notes         – free-text note (nil when absent).
//	CreatedAt     – when the entry was recorded.
type ManualVote struct {
	ID            uint64    // manual_votes.id
	ArtistID      uint64    // manual_votes.artist_id
	AdminUserID   uint64    // manual_votes.admin_user_id
	Amount        int64     // manual_votes.amount
	VotesAdded    int64     // manual_votes.votes_added
	PaymentMethod string    // manual_votes.payment_method
	Notes         *string   // manual_votes.notes (nullable)
	CreatedAt     time.Time // manual_votes.created_at
}

// ValidManualMethod reports whether m is one of the accepted methods.
func ValidManualMethod(m string) bool {
	switch m {
	case ManualMethodCash, ManualMethodBank, ManualMethodMobileMoney:
		return true
	}
	return false
}
