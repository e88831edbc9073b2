package reddit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// APIError is a reply rejection reported by the platform that is not
// recoverable by waiting. Callers log it and abandon the item.
type APIError struct {
	Code    string
	Message string
	Field   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit API error %s: %s", e.Code, e.Message)
}

// RateLimitError is a reply rejection carrying a parsed retry-after
// directive. Callers wait RetryAfter and retry the same post.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s: %s", e.RetryAfter, e.Message)
}

const rateLimitCode = "RATELIMIT"

var retryPattern = regexp.MustCompile(`(?i)again in ([0-9]+) ([A-Za-z]+)\.$`)

var unitSeconds = map[string]int{
	"second":  1,
	"seconds": 1,
	"minute":  60,
	"minutes": 60,
	"hour":    60 * 60,
	"hours":   60 * 60,
}

// RetryAfter parses a human-readable rate-limit message of the form
// "... again in <N> <unit>." into a wait duration of N x unit + 1s.
// Messages that do not match the pattern are an error.
func RetryAfter(message string) (time.Duration, error) {
	matches := retryPattern.FindStringSubmatch(message)
	if matches == nil {
		return 0, fmt.Errorf("no retry-after directive in message: %q", message)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid retry-after count %q: %w", matches[1], err)
	}

	multiplier, ok := unitSeconds[strings.ToLower(matches[2])]
	if !ok {
		return 0, fmt.Errorf("unknown retry-after unit %q", matches[2])
	}

	return time.Duration(count*multiplier+1) * time.Second, nil
}

// classifyAPIError turns a raw platform rejection into a structured
// error. A RATELIMIT rejection becomes a RateLimitError only when its
// message carries a parseable directive; otherwise it surfaces as a
// plain APIError and the caller abandons the item.
func classifyAPIError(code, message, field string) error {
	if strings.EqualFold(code, rateLimitCode) {
		if retryAfter, err := RetryAfter(message); err == nil {
			return &RateLimitError{Message: message, RetryAfter: retryAfter}
		}
	}
	return &APIError{Code: code, Message: message, Field: field}
}
