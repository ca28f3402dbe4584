// Package queue defines message payloads exchanged over the message broker.
package queue

// Vote sources carried in VoteCreditedEvent.Source.
const (
	SourceOnline    = "online"
	SourceFinancial = "financial"
	SourceHand      = "hand"
)

// VoteCreditedEvent is published whenever votes are credited to an artist,
// regardless of source. It contains enough information for downstream
// consumers to audit, notify, or feed analytics without querying the
// primary database.
type VoteCreditedEvent struct {
	ArtistID   uint64 `json:"artist_id"`
	StageName  string `json:"stage_name"`
	Source     string `json:"source"` // online | financial | hand
	Votes      int64  `json:"votes"`
	Amount     int64  `json:"amount,omitempty"`         // currency minor units, 0 for hand votes
	Method     string `json:"payment_method,omitempty"` // vendor tag or cash/bank/mobile
	Reference  string `json:"reference,omitempty"`      // external transaction reference
	CreditedAt string `json:"credited_at"`
}
