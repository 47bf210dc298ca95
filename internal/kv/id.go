package kv

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// NewID returns a random UUID string. When the system entropy source fails
// it falls back to a pseudo-random UUID-shaped string rather than erroring;
// collision resistance then rests on the fallback generator alone.
func NewID() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	return fmt.Sprintf("%08x-%04x-4%03x-%04x-%012x",
		rand.Uint32(),
		rand.Uint32()&0xffff,
		rand.Uint32()&0xfff,
		(rand.Uint32()&0x3fff)|0x8000,
		rand.Uint64()&0xffffffffffff,
	)
}

// NowISO returns the current time as an RFC 3339 UTC timestamp.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NowMillis returns the current time in milliseconds since the Unix epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
