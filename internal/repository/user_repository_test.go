package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestUserCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// The email is normalized before the insert; the hash is opaque.
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Admin", "admin@example.com", sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := NewUserRepo(db).Create(context.Background(), "Admin", " Admin@Example.COM ", "secret", true, 4)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Admin", "admin@example.com", sqlmock.AnyArg(), true).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'admin@example.com' for key 'users.email'"))

	_, err = NewUserRepo(db).Create(context.Background(), "Admin", "admin@example.com", "secret", true, 4)
	if err != ErrEmailExists {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
