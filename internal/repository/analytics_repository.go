package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rocimuc/artist-vote/internal/model"
)

// AnalyticsRepo computes read-only rollups over the artist counters and
// the two ledger tables (payments, manual_votes) for the admin dashboard.
// Revenue figures are always summed from the ledgers, never derived from
// the counters, so online and manual revenue stay independently auditable.
type AnalyticsRepo struct{ db *sql.DB }

// NewAnalyticsRepo returns a new AnalyticsRepo bound to the given database.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// VoteTotals holds the summed artist counters.
type VoteTotals struct {
	Online    int64 `json:"online_votes"`
	Financial int64 `json:"financial_votes"`
	Hand      int64 `json:"hand_votes"`
}

// TrendPoint is one day's aggregate within a trend series.
type TrendPoint struct {
	Day      string `json:"day"` // YYYY-MM-DD
	Votes    int64  `json:"votes"`
	Revenue  int64  `json:"revenue"`
	TxnCount int64  `json:"transaction_count"`
}

// MethodStat aggregates manual vote entries by out-of-band payment method.
type MethodStat struct {
	Method   string `json:"payment_method"`
	Votes    int64  `json:"votes"`
	Amount   int64  `json:"amount"`
	TxnCount int64  `json:"transaction_count"`
}

// StatusStat aggregates online payments by status.
type StatusStat struct {
	Status   string `json:"status"`
	TxnCount int64  `json:"transaction_count"`
	Amount   int64  `json:"amount"`
	Votes    int64  `json:"votes"`
}

// CountApprovedArtists returns the number of publicly visible artists.
func (r *AnalyticsRepo) CountApprovedArtists(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM artists WHERE is_approved=1").Scan(&n)
	return n, err
}

// SumVoteCounters returns the three counters summed over all artists.
func (r *AnalyticsRepo) SumVoteCounters(ctx context.Context) (VoteTotals, error) {
	var t VoteTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(online_votes),0), COALESCE(SUM(financial_votes),0), COALESCE(SUM(hand_votes),0)
		 FROM artists`).Scan(&t.Online, &t.Financial, &t.Hand)
	return t, err
}

// OnlineRevenue sums the amount of SUCCESSFUL payments created at or after
// since. A zero since means all time.
func (r *AnalyticsRepo) OnlineRevenue(ctx context.Context, since time.Time) (int64, error) {
	q := "SELECT COALESCE(SUM(amount),0) FROM payments WHERE status=?"
	args := []interface{}{model.PaymentSuccessful}
	if !since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, since)
	}
	var sum int64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&sum)
	return sum, err
}

// ManualRevenue sums the amount of manual vote entries created at or after
// since. A zero since means all time.
func (r *AnalyticsRepo) ManualRevenue(ctx context.Context, since time.Time) (int64, error) {
	q := "SELECT COALESCE(SUM(amount),0) FROM manual_votes"
	args := []interface{}{}
	if !since.IsZero() {
		q += " WHERE created_at >= ?"
		args = append(args, since)
	}
	var sum int64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&sum)
	return sum, err
}

// PaymentStatsByStatus breaks online payments down by status.
func (r *AnalyticsRepo) PaymentStatsByStatus(ctx context.Context) ([]StatusStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(amount),0), COALESCE(SUM(votes_added),0)
		 FROM payments GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]StatusStat, 0)
	for rows.Next() {
		var s StatusStat
		if err := rows.Scan(&s.Status, &s.TxnCount, &s.Amount, &s.Votes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ManualStatsByMethod breaks manual vote entries down by payment method.
func (r *AnalyticsRepo) ManualStatsByMethod(ctx context.Context) ([]MethodStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payment_method, COALESCE(SUM(votes_added),0), COALESCE(SUM(amount),0), COUNT(*)
		 FROM manual_votes GROUP BY payment_method ORDER BY payment_method`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]MethodStat, 0)
	for rows.Next() {
		var s MethodStat
		if err := rows.Scan(&s.Method, &s.Votes, &s.Amount, &s.TxnCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// OnlineTrend returns a day-bucketed series of SUCCESSFUL payments created
// at or after since. A zero since means all time.
func (r *AnalyticsRepo) OnlineTrend(ctx context.Context, since time.Time) ([]TrendPoint, error) {
	q := `SELECT DATE_FORMAT(created_at, '%Y-%m-%d'),
	             COALESCE(SUM(votes_added),0), COALESCE(SUM(amount),0), COUNT(*)
	      FROM payments WHERE status=?`
	args := []interface{}{model.PaymentSuccessful}
	if !since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, since)
	}
	q += " GROUP BY DATE_FORMAT(created_at, '%Y-%m-%d') ORDER BY 1"
	return r.trend(ctx, q, args...)
}

// ManualTrend returns a day-bucketed series of manual vote entries created
// at or after since. A zero since means all time.
func (r *AnalyticsRepo) ManualTrend(ctx context.Context, since time.Time) ([]TrendPoint, error) {
	q := `SELECT DATE_FORMAT(created_at, '%Y-%m-%d'),
	             COALESCE(SUM(votes_added),0), COALESCE(SUM(amount),0), COUNT(*)
	      FROM manual_votes`
	args := []interface{}{}
	if !since.IsZero() {
		q += " WHERE created_at >= ?"
		args = append(args, since)
	}
	q += " GROUP BY DATE_FORMAT(created_at, '%Y-%m-%d') ORDER BY 1"
	return r.trend(ctx, q, args...)
}

func (r *AnalyticsRepo) trend(ctx context.Context, q string, args ...interface{}) ([]TrendPoint, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TrendPoint, 0)
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Day, &p.Votes, &p.Revenue, &p.TxnCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteOrphans removes ledger rows whose artist no longer exists. The
// cascade on artist deletion was added after launch, so historical data
// can contain orphans; this cleans them up on demand. Returns the number
// of manual vote entries and payments deleted.
func (r *AnalyticsRepo) DeleteOrphans(ctx context.Context) (int64, int64, error) {
	mv, err := r.db.ExecContext(ctx,
		"DELETE FROM manual_votes WHERE artist_id NOT IN (SELECT id FROM artists)")
	if err != nil {
		return 0, 0, err
	}
	manualDeleted, _ := mv.RowsAffected()
	pm, err := r.db.ExecContext(ctx,
		"DELETE FROM payments WHERE artist_id NOT IN (SELECT id FROM artists)")
	if err != nil {
		return manualDeleted, 0, err
	}
	paymentsDeleted, _ := pm.RowsAffected()
	return manualDeleted, paymentsDeleted, nil
}
