// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking has the requested id.
// Handlers should translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrInvalidStatus is returned when a status update names a status
// outside model.BookingStatus. Handlers should translate this into an
// HTTP 400 response.
var ErrInvalidStatus = errors.New("invalid booking status")
