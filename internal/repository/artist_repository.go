package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rocimuc/artist-vote/internal/model"
	"github.com/rocimuc/artist-vote/internal/utils"
)

// ArtistRepo provides persistence for artist accounts and their vote
// counters. All counter changes go through atomic UPDATE ... SET x = x + ?
// statements so concurrent voters never lose increments.
type ArtistRepo struct{ db *sql.DB }

// NewArtistRepo returns a new ArtistRepo bound to the given database.
func NewArtistRepo(db *sql.DB) *ArtistRepo { return &ArtistRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span the artist counters and the vote ledger.
func (r *ArtistRepo) DB() *sql.DB { return r.db }

// NewArtistParams carries the profile fields required at registration.
// The image fields reference an already-uploaded asset.
type NewArtistParams struct {
	Email          string
	Password       string
	Name           string
	StageName      string
	Age            uint32
	CellNumber     string
	WhatsappNumber *string
	Bio            string
	ImagePublicID  string
	ImageURL       string
}

const artistCols = `id, email, password_hash, name, stage_name, age, cell_number,
	whatsapp_number, bio, image_public_id, image_url,
	online_votes, financial_votes, hand_votes, is_approved, created_at, updated_at`

// Create inserts a new artist and returns its ID. The password is hashed
// here with the given bcrypt cost. Duplicate emails map to ErrEmailExists.
func (r *ArtistRepo) Create(ctx context.Context, p NewArtistParams, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO artists
		 (email, password_hash, name, stage_name, age, cell_number, whatsapp_number, bio, image_public_id, image_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		email, hash, p.Name, p.StageName, p.Age, p.CellNumber, p.WhatsappNumber, p.Bio, p.ImagePublicID, p.ImageURL)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an artist by normalized email.
func (r *ArtistRepo) GetByEmail(ctx context.Context, email string) (model.Artist, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+artistCols+" FROM artists WHERE email=? LIMIT 1", email))
}

// GetByID fetches an artist by id. Missing rows map to ErrArtistNotFound.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (model.Artist, error) {
	a, err := r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+artistCols+" FROM artists WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return a, ErrArtistNotFound
	}
	return a, err
}

func (r *ArtistRepo) scanOne(row *sql.Row) (model.Artist, error) {
	var a model.Artist
	var whatsapp sql.NullString
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.StageName, &a.Age, &a.CellNumber,
		&whatsapp, &a.Bio, &a.ImagePublicID, &a.ImageURL,
		&a.OnlineVotes, &a.FinancialVotes, &a.HandVotes, &a.IsApproved, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Artist{}, err
	}
	if whatsapp.Valid {
		w := whatsapp.String
		a.WhatsappNumber = &w
	}
	return a, nil
}

func (r *ArtistRepo) scanList(rows *sql.Rows) ([]model.Artist, error) {
	defer rows.Close()
	out := make([]model.Artist, 0)
	for rows.Next() {
		var a model.Artist
		var whatsapp sql.NullString
		if err := rows.Scan(
			&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.StageName, &a.Age, &a.CellNumber,
			&whatsapp, &a.Bio, &a.ImagePublicID, &a.ImageURL,
			&a.OnlineVotes, &a.FinancialVotes, &a.HandVotes, &a.IsApproved, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if whatsapp.Valid {
			w := whatsapp.String
			a.WhatsappNumber = &w
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListApproved returns all approved artists ordered by stage name, for the
// public voting page. Callers must project away sensitive fields before
// serializing.
func (r *ArtistRepo) ListApproved(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+artistCols+" FROM artists WHERE is_approved=1 ORDER BY stage_name, id")
	if err != nil {
		return nil, err
	}
	return r.scanList(rows)
}

// ListAll returns every artist (approved or not) ordered by stage name,
// for the admin panel.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+artistCols+" FROM artists ORDER BY stage_name, id")
	if err != nil {
		return nil, err
	}
	return r.scanList(rows)
}

// Leaderboard returns up to limit approved artists ranked by official votes
// (online + financial) descending. Ties break by ascending id so the order
// is deterministic; hand votes never affect the ranking.
func (r *ArtistRepo) Leaderboard(ctx context.Context, limit int) ([]model.Artist, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+artistCols+` FROM artists WHERE is_approved=1
		 ORDER BY (online_votes + financial_votes) DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return r.scanList(rows)
}

// UpdateProfileParams carries the optional patch fields for a profile
// update. Nil fields are left unchanged. PasswordHash must already be
// hashed by the caller.
type UpdateProfileParams struct {
	Name         *string
	StageName    *string
	Bio          *string
	PasswordHash *string
}

// UpdateProfile applies a partial update to the artist's own fields.
func (r *ArtistRepo) UpdateProfile(ctx context.Context, id uint64, p UpdateProfileParams) error {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if p.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *p.Name)
	}
	if p.StageName != nil {
		sets = append(sets, "stage_name=?")
		args = append(args, *p.StageName)
	}
	if p.Bio != nil {
		sets = append(sets, "bio=?")
		args = append(args, *p.Bio)
	}
	if p.PasswordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *p.PasswordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE artists SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Could also be a no-op patch matching current values; re-check existence.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM artists WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrArtistNotFound
		}
	}
	return nil
}

// SetApproved toggles the public visibility flag.
func (r *ArtistRepo) SetApproved(ctx context.Context, id uint64, approved bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE artists SET is_approved=? WHERE id=?", approved, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Same-value updates also report zero rows; distinguish from a
		// missing artist.
		ok, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrArtistNotFound
		}
	}
	return nil
}

// IncrementHandVotes atomically adds one free hand vote and returns the new
// tally. Missing artists map to ErrArtistNotFound.
func (r *ArtistRepo) IncrementHandVotes(ctx context.Context, id uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE artists SET hand_votes = hand_votes + 1 WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrArtistNotFound
	}
	var count int64
	err = r.db.QueryRowContext(ctx, "SELECT hand_votes FROM artists WHERE id=?", id).Scan(&count)
	return count, err
}

// IncrementOnlineVotesTx atomically credits confirmed payment votes within
// an existing transaction. The caller commits or rolls back.
func (r *ArtistRepo) IncrementOnlineVotesTx(ctx context.Context, tx *sql.Tx, id uint64, votes int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE artists SET online_votes = online_votes + ? WHERE id=?", votes, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrArtistNotFound
	}
	return nil
}

// IncrementFinancialVotesTx atomically credits admin-entered financial
// votes within an existing transaction.
func (r *ArtistRepo) IncrementFinancialVotesTx(ctx context.Context, tx *sql.Tx, id uint64, votes int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE artists SET financial_votes = financial_votes + ? WHERE id=?", votes, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrArtistNotFound
	}
	return nil
}

// DeleteCascade removes an artist together with every ledger row that
// references it, inside one transaction, so no orphans remain. Returns
// ErrArtistNotFound when the artist does not exist.
func (r *ArtistRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM manual_votes WHERE artist_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE artist_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM artists WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrArtistNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Exists reports whether an artist row with the given id is present.
func (r *ArtistRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM artists WHERE id=?)", id).Scan(&exists)
	return exists, err
}
