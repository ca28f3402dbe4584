package model

import "time"

// Payment statuses. A payment transitions from PENDING to exactly one of
// the terminal states and never leaves a terminal state.
const (
	PaymentPending    = "PENDING"
	PaymentSuccessful = "SUCCESSFUL"
	PaymentFailed     = "FAILED"
)

// Payment records a single online payment attempt as stored in the
// `payments` table. The external vendor reference (TransID) is unique and
// is the idempotency key for webhook/verification re-deliveries.
//
// Fields:
//
//	ID            – primary key identifier.
//	TransID       – unique external transaction reference.
//	ArtistID      – artist the payment votes for.
//	Amount        – amount paid in currency minor units.
//	Currency      – ISO currency code (XAF by default).
//	Status        – PENDING, SUCCESSFUL or FAILED.
//	PaymentMethod – vendor tag (e.g. "accountpe", "campay").
//	VotesAdded    – votes credited on success: floor(Amount / unit price).
//	CreatedAt     – when the payment was initiated.
//	UpdatedAt     – when the status last changed.
type Payment struct {
	ID            uint64    // payments.id
	TransID       string    // payments.trans_id
	ArtistID      uint64    // payments.artist_id
	Amount        int64     // payments.amount
	Currency      string    // payments.currency
	Status        string    // payments.status
	PaymentMethod string    // payments.payment_method
	VotesAdded    int64     // payments.votes_added
	CreatedAt     time.Time // payments.created_at
	UpdatedAt     time.Time // payments.updated_at
}
