package common

import (
	"time"

	"github.com/google/uuid"
)

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator mints random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// ZoneClock reads the wall clock in a fixed location.
type ZoneClock struct {
	Loc *time.Location
}

// Now returns the current time in c.Loc, or local time when Loc is nil.
func (c ZoneClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}
