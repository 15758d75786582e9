package pipeline

import (
	"math/rand/v2"
	"os"
	"strings"
	"time"
)

// IsRetryable checks if an extraction error is worth retrying. Watched
// files are often picked up mid-copy, so a missing file or a truncated
// archive usually resolves itself once the writer finishes.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if os.IsNotExist(err) {
		return true
	}
	msg := err.Error()
	for _, hint := range []string{
		"unexpected EOF",
		"not a valid zip",
		"pdf decode",
		"malformed PDF",
	} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3
