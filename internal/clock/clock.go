package clock

import "time"

// MsPerDay is the length of a UTC day in milliseconds. Day 0 is the UTC
// epoch day; all dates in the system are integer day numbers.
const MsPerDay int64 = 86_400_000

// DayNumber converts an instant in epoch milliseconds to a UTC day number.
func DayNumber(instantMs int64) int64 {
	if instantMs < 0 {
		return (instantMs - (MsPerDay - 1)) / MsPerDay
	}
	return instantMs / MsPerDay
}

// NextResetTimestamp returns the epoch-ms instant at which the given day ends.
func NextResetTimestamp(dayNumber int64) int64 {
	return (dayNumber + 1) * MsPerDay
}

// Snapshot is a community-local view of "now".
type Snapshot struct {
	InstantMs         int64 `json:"instant_ms"`
	DayNumber         int64 `json:"day_number"`
	SecondsUntilReset int64 `json:"seconds_until_reset"`
}

// OffsetSource supplies the per-community dev time offset in seconds.
// Production communities keep it at 0; tests advance it to simulate day
// rollovers without waiting. Changing it only shifts future reads.
type OffsetSource interface {
	DevTimeOffsetSeconds(communityID string) (int64, error)
}

// Clock resolves the effective "now" for a community.
type Clock struct {
	offsets OffsetSource
	nowFn   func() time.Time
}

func New(offsets OffsetSource) *Clock {
	return &Clock{offsets: offsets, nowFn: time.Now}
}

// NewWithNow builds a clock with a fixed wall-clock source for tests.
func NewWithNow(offsets OffsetSource, nowFn func() time.Time) *Clock {
	return &Clock{offsets: offsets, nowFn: nowFn}
}

// Now returns the community's effective instant, day number and the seconds
// remaining until the next day boundary.
func (c *Clock) Now(communityID string) (Snapshot, error) {
	var offsetSeconds int64
	if c.offsets != nil {
		var err error
		offsetSeconds, err = c.offsets.DevTimeOffsetSeconds(communityID)
		if err != nil {
			return Snapshot{}, err
		}
	}
	return At(c.nowFn().UnixMilli()+offsetSeconds*1000), nil
}

// At computes the snapshot for an explicit instant.
func At(instantMs int64) Snapshot {
	day := DayNumber(instantMs)
	remaining := (NextResetTimestamp(day) - instantMs) / 1000
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{
		InstantMs:         instantMs,
		DayNumber:         day,
		SecondsUntilReset: remaining,
	}
}
