package model

import "time"

// Message is a contact-form submission. No lifecycle beyond creation and
// admin read.
type Message struct {
	ID        uint64    // messages.id
	Name      string    // messages.name
	Email     string    // messages.email
	Subject   string    // messages.subject
	Body      string    // messages.body
	CreatedAt time.Time // messages.created_at
}
