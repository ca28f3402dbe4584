package repository

import (
	"context"
	"database/sql"

	"github.com/rocimuc/artist-vote/internal/model"
)

// ManualVoteRepo persists the append-only ledger of admin-entered
// financial votes. Rows are only ever inserted, listed, or deleted as part
// of an artist cascade; there is no update path.
type ManualVoteRepo struct{ db *sql.DB }

// NewManualVoteRepo returns a new ManualVoteRepo bound to the given database.
func NewManualVoteRepo(db *sql.DB) *ManualVoteRepo { return &ManualVoteRepo{db: db} }

// CreateTx inserts a ledger entry within an existing transaction so the
// entry and the artist's financial_votes increment commit as one unit.
func (r *ManualVoteRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.ManualVote) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO manual_votes (artist_id, admin_user_id, amount, votes_added, payment_method, notes)
		 VALUES (?,?,?,?,?,?)`,
		m.ArtistID, m.AdminUserID, m.Amount, m.VotesAdded, m.PaymentMethod, m.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListByArtist returns all manual vote entries for one artist, newest
// first. Used by the admin audit view.
func (r *ManualVoteRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.ManualVote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, artist_id, admin_user_id, amount, votes_added, payment_method, notes, created_at
		 FROM manual_votes WHERE artist_id=? ORDER BY created_at DESC, id DESC`, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ManualVote, 0)
	for rows.Next() {
		var m model.ManualVote
		var notes sql.NullString
		if err := rows.Scan(&m.ID, &m.ArtistID, &m.AdminUserID, &m.Amount,
			&m.VotesAdded, &m.PaymentMethod, &notes, &m.CreatedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			n := notes.String
			m.Notes = &n
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
