// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrArtistNotFound signals that a vote or payment references
// an artist that does not exist, while ErrConflict signals that an
// operation cannot proceed because of conflicting state (e.g. trying to
// transition a payment out of a terminal status).
package repository

import "errors"

// ErrEmailExists is returned when registration would violate the unique
// email constraint. Handlers should translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrArtistNotFound is returned when an artist id resolves to no row.
// Handlers should translate this into HTTP 404.
var ErrArtistNotFound = errors.New("artist not found")

// ErrPaymentNotFound is returned when a transaction reference resolves to
// no payment row. Handlers should translate this into HTTP 404.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as attempting to fail a payment that has
// already succeeded. Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
