package service

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotJoined means the action requires a prior join for this community.
var ErrNotJoined = errors.New("not joined to this challenge")

// ErrConfirmRequired is returned when a config update switches templates
// while the community already has participants. Template changes only touch
// copy and thresholds, never streak data, but the caller must confirm
// explicitly before we apply one.
var ErrConfirmRequired = errors.New("template change requires confirmation")

// RateLimitedError carries the remaining wait for a throttled action.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter.Round(time.Second))
}
