// Package timeago renders Unix timestamps as coarse relative ages
// ("3 hours ago").
package timeago

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Unknown is returned for timestamps that cannot be turned into an age.
const Unknown = "Unknown time"

// ErrInvalidTimestamp is returned by Elapsed for missing or future timestamps.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

const day = 24 * time.Hour

// maxElapsed is the largest gap in seconds that fits in a time.Duration.
const maxElapsed = math.MaxInt64 / int64(time.Second)

// Elapsed returns now - timestamp. Timestamps <= 0 (the decoder's default for
// a missing field), timestamps after now and gaps too large for a
// time.Duration are invalid.
func Elapsed(timestamp, now int64) (time.Duration, error) {
	if timestamp <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimestamp, timestamp)
	}
	if timestamp > now {
		return 0, fmt.Errorf("%w: %d is after %d", ErrInvalidTimestamp, timestamp, now)
	}
	if now-timestamp > maxElapsed {
		return 0, fmt.Errorf("%w: %d is too far before %d", ErrInvalidTimestamp, timestamp, now)
	}
	return time.Duration(now-timestamp) * time.Second, nil
}

// Format returns the most significant unit of now - timestamp: days, then
// hours, then minutes (including "0 minutes ago"). Both arguments are Unix
// seconds. Invalid input yields Unknown.
func Format(timestamp, now int64) string {
	elapsed, err := Elapsed(timestamp, now)
	if err != nil {
		return Unknown
	}

	switch {
	case elapsed >= day:
		return fmt.Sprintf("%d days ago", int64(elapsed/day))
	case elapsed >= time.Hour:
		return fmt.Sprintf("%d hours ago", int64(elapsed/time.Hour))
	default:
		return fmt.Sprintf("%d minutes ago", int64(elapsed/time.Minute))
	}
}

// Since formats timestamp relative to the current time.
func Since(timestamp int64) string {
	return Format(timestamp, time.Now().Unix())
}
