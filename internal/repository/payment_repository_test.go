package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/rocimuc/artist-vote/internal/model"
)

func newPaymentRepoMock(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPaymentRepo(db), mock
}

func paymentStatusRow(transID, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "trans_id", "artist_id", "amount", "currency", "status",
		"payment_method", "votes_added", "created_at", "updated_at",
	}).AddRow(1, transID, 7, 300, "XAF", status, "campay", 0, now, now)
}

func TestClaimSuccessTx(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{"pending row claims", 1, true},
		{"already settled row does not", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newPaymentRepoMock(t)
			mock.ExpectBegin()
			mock.ExpectExec("UPDATE payments SET status=").
				WithArgs(model.PaymentSuccessful, int64(500), int64(5), "VOTE-7-11223344", model.PaymentPending).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			tx, err := repo.db.Begin()
			if err != nil {
				t.Fatalf("begin: %v", err)
			}
			won, err := repo.ClaimSuccessTx(context.Background(), tx, "VOTE-7-11223344", 500, 5)
			if err != nil {
				t.Fatalf("ClaimSuccessTx: %v", err)
			}
			if won != tt.want {
				t.Errorf("won = %v, want %v", won, tt.want)
			}
			if err := tx.Commit(); err != nil {
				t.Fatalf("commit: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestMarkFailedPending(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)
	mock.ExpectExec("UPDATE payments SET status=").
		WithArgs(model.PaymentFailed, "VOTE-7-11223344", model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "VOTE-7-11223344"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkFailedAlreadyFailed(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)
	mock.ExpectExec("UPDATE payments SET status=").
		WithArgs(model.PaymentFailed, "VOTE-7-11223344", model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM payments WHERE trans_id=").
		WithArgs("VOTE-7-11223344").
		WillReturnRows(paymentStatusRow("VOTE-7-11223344", model.PaymentFailed))

	if err := repo.MarkFailed(context.Background(), "VOTE-7-11223344"); err != nil {
		t.Fatalf("MarkFailed on failed payment: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkFailedSuccessfulIsConflict(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)
	mock.ExpectExec("UPDATE payments SET status=").
		WithArgs(model.PaymentFailed, "VOTE-7-11223344", model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM payments WHERE trans_id=").
		WithArgs("VOTE-7-11223344").
		WillReturnRows(paymentStatusRow("VOTE-7-11223344", model.PaymentSuccessful))

	// A settled payment must never be flipped back to FAILED.
	if err := repo.MarkFailed(context.Background(), "VOTE-7-11223344"); err != ErrConflict {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkFailedUnknownReference(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)
	mock.ExpectExec("UPDATE payments SET status=").
		WithArgs(model.PaymentFailed, "VOTE-7-ffffffff", model.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM payments WHERE trans_id=").
		WithArgs("VOTE-7-ffffffff").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trans_id", "artist_id", "amount", "currency", "status",
			"payment_method", "votes_added", "created_at", "updated_at",
		}))

	if err := repo.MarkFailed(context.Background(), "VOTE-7-ffffffff"); err != ErrPaymentNotFound {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
