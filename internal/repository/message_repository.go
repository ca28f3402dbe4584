package repository

import (
	"context"
	"database/sql"

	"github.com/rocimuc/artist-vote/internal/model"
)

// MessageRepo persists contact-form submissions.
type MessageRepo struct{ db *sql.DB }

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create stores a contact-form submission and returns its ID.
func (r *MessageRepo) Create(ctx context.Context, name, email, subject, body string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (name, email, subject, body) VALUES (?,?,?,?)",
		name, email, subject, body)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns all messages, newest first.
func (r *MessageRepo) List(ctx context.Context) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,name,email,subject,body,created_at FROM messages ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
