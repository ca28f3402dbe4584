// Package payment bridges the voting API to external payment vendors.
// Exactly one Provider implementation is active per deployment, selected
// by configuration at startup; the vote-crediting flow in the handlers is
// vendor independent and only ever talks to this contract.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// Vendor-agnostic transaction states reported by PaymentStatus.
const (
	StatePending    = "PENDING"
	StateSuccessful = "SUCCESSFUL"
	StateFailed     = "FAILED"
)

// ErrVendor wraps any failure talking to the external vendor: network
// errors, non-2xx responses, or unexpected payload shapes. Handlers log
// the full detail and collapse it to a generic upstream error for clients.
var ErrVendor = errors.New("payment vendor error")

// InitiateRequest carries everything a vendor needs to open a checkout.
type InitiateRequest struct {
	TransID     string // our unique external reference
	ArtistName  string // shown on the vendor checkout page
	Amount      int64  // currency minor units
	Currency    string
	Description string
	RedirectURL string // where the vendor sends the voter after paying
}

// Checkout is the client-facing result of a successful initiation: a URL
// to redirect the voter to (or to embed in a payment widget).
type Checkout struct {
	PaymentURL string `json:"payment_url"`
}

// Status is the vendor's authoritative view of one transaction. Amount is
// zero when the vendor's status endpoint does not echo it back; callers
// then fall back to the amount recorded at initiation.
type Status struct {
	State  string // StatePending, StateSuccessful or StateFailed
	Amount int64  // currency minor units, 0 if not reported
}

// Provider is the contract every vendor integration implements. CreatePayment
// opens a checkout for a PENDING transaction; PaymentStatus re-queries the
// vendor so confirmations never trust client-supplied data.
type Provider interface {
	Name() string
	CreatePayment(ctx context.Context, req InitiateRequest) (Checkout, error)
	PaymentStatus(ctx context.Context, transID string) (Status, error)
}

// NewReference generates a unique external transaction reference in the
// form VOTE-<artistID>-<8 hex chars>.
func NewReference(artistID uint64) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("VOTE-%d-%s", artistID, hex.EncodeToString(buf)), nil
}

// VotesFor converts a paid amount into votes: floor(amount / unitPrice).
// Non-positive amounts or unit prices yield zero votes.
func VotesFor(amount, unitPrice int64) int64 {
	if amount <= 0 || unitPrice <= 0 {
		return 0
	}
	return amount / unitPrice
}
