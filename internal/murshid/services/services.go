// Package services contains the clients for the two external Arabic
// analysis collaborators: the morphology service (word-structure analysis)
// and the meaning service (synonyms, antonyms, plural forms).
//
// Both upstreams are treated as unreliable. Transient failures (network
// errors, 5xx) are retried with bounded backoff; every other failure is
// returned as an error for the dispatcher to translate into a fixed Arabic
// reply. No raw error ever reaches the student.
package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/malakhossam/murshid/common/retry"
)

// ErrUnavailable is returned when an upstream answered with a non-2xx
// status. It is distinct from transport errors so the dispatcher can pick
// the matching fixed reply.
var ErrUnavailable = errors.New("services: upstream returned non-success status")

// DefaultTimeout bounds each upstream HTTP call.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps upstream response bodies.
const maxBodyBytes = 1 * 1024 * 1024

// statusError carries the HTTP status of a failed upstream call so the
// retry predicate can distinguish 5xx (retryable) from 4xx (not).
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("services: upstream HTTP %d", e.status)
}

func (e *statusError) Is(target error) bool {
	return target == ErrUnavailable
}

// retryConfig retries network errors and 5xx responses; a 4xx answer is a
// final answer.
var retryConfig = retry.Config{
	MaxAttempts:  3,
	InitialDelay: 300 * time.Millisecond,
	MaxDelay:     3 * time.Second,
	ShouldRetry: func(err error) bool {
		var se *statusError
		if errors.As(err, &se) {
			return se.status >= http.StatusInternalServerError
		}
		return true
	},
}
