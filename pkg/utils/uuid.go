package utils

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewRecordID returns a time-ordered identifier: a millisecond timestamp
// followed by random bits (UUIDv7), so lexical order follows insertion order.
func NewRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fallbackID(time.Now())
	}
	return id.String()
}

// fallbackID keeps ids unique and time-prefixed when the UUID source fails.
func fallbackID(now time.Time) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("%016x-%d", now.UnixMilli(), now.UnixNano())
	}
	return fmt.Sprintf("%016x-%x", now.UnixMilli(), suffix)
}
