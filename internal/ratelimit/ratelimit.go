package ratelimit

import "time"

// Windows for the two throttled actions. Check-ins are cheap but noisy on
// double-taps; joins are rarer and throttled harder.
const (
	CheckInWindow = 5 * time.Second
	JoinWindow    = 30 * time.Second
)

// Allow decides whether enough time has passed since the last recorded
// attempt. lastAttemptMs of 0 means no prior attempt. When the action is
// still throttled, retryAfter is the remaining wait.
func Allow(lastAttemptMs, nowMs int64, window time.Duration) (ok bool, retryAfter time.Duration) {
	if lastAttemptMs <= 0 {
		return true, 0
	}
	elapsed := time.Duration(nowMs-lastAttemptMs) * time.Millisecond
	if elapsed >= window {
		return true, 0
	}
	return false, window - elapsed
}
