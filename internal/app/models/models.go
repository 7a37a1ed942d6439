package models

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier shared by every storage backend
func NewID() string {
	return uuid.NewString()
}

// Now returns the current time truncated to what every backend can store.
// MongoDB keeps milliseconds and PostgreSQL microseconds.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
