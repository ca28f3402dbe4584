package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rocimuc/artist-vote/internal/model"
)

// PaymentRepo persists online payment attempts. A payment is created
// PENDING and transitions exactly once to SUCCESSFUL or FAILED; the
// transition to SUCCESSFUL is claimed with a conditional UPDATE keyed on
// the current status so a duplicate webhook racing a client verification
// can never credit votes twice.
type PaymentRepo struct{ db *sql.DB }

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a PENDING payment row for a freshly initiated checkout.
// The reference must be unique; a duplicate maps to ErrConflict.
func (r *PaymentRepo) Create(ctx context.Context, transID string, artistID uint64, amount int64, currency, method string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (trans_id, artist_id, amount, currency, status, payment_method)
		 VALUES (?,?,?,?,?,?)`,
		transID, artistID, amount, currency, model.PaymentPending, method)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByTransID fetches a payment by its external reference. Missing rows
// map to ErrPaymentNotFound.
func (r *PaymentRepo) GetByTransID(ctx context.Context, transID string) (model.Payment, error) {
	var p model.Payment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, trans_id, artist_id, amount, currency, status, payment_method, votes_added, created_at, updated_at
		 FROM payments WHERE trans_id=? LIMIT 1`, transID).Scan(
		&p.ID, &p.TransID, &p.ArtistID, &p.Amount, &p.Currency, &p.Status,
		&p.PaymentMethod, &p.VotesAdded, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrPaymentNotFound
	}
	return p, err
}

// ClaimSuccessTx attempts the PENDING -> SUCCESSFUL transition within an
// existing transaction. It returns true when this call won the claim and
// votes should be credited, false when another delivery already settled
// the payment (idempotent no-op for the caller).
func (r *PaymentRepo) ClaimSuccessTx(ctx context.Context, tx *sql.Tx, transID string, amount, votesAdded int64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status=?, amount=?, votes_added=?
		 WHERE trans_id=? AND status=?`,
		model.PaymentSuccessful, amount, votesAdded, transID, model.PaymentPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkFailed moves a PENDING payment to FAILED. Payments already settled
// as SUCCESSFUL are left untouched and reported as ErrConflict; an unknown
// reference maps to ErrPaymentNotFound.
func (r *PaymentRepo) MarkFailed(ctx context.Context, transID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE payments SET status=? WHERE trans_id=? AND status=?",
		model.PaymentFailed, transID, model.PaymentPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	p, err := r.GetByTransID(ctx, transID)
	if err != nil {
		return err
	}
	if p.Status == model.PaymentFailed {
		return nil // already failed, no-op
	}
	return ErrConflict
}

// ListByArtist returns all payment attempts for one artist, newest first.
// Used by the admin audit view.
func (r *PaymentRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trans_id, artist_id, amount, currency, status, payment_method, votes_added, created_at, updated_at
		 FROM payments WHERE artist_id=? ORDER BY created_at DESC, id DESC`, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.ID, &p.TransID, &p.ArtistID, &p.Amount, &p.Currency, &p.Status,
			&p.PaymentMethod, &p.VotesAdded, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
