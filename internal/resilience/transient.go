// Package resilience hardens the outbound price list and document
// analysis calls: transient-error classification, bounded retry with
// backoff, and a circuit breaker so a dead endpoint degrades to the
// next pricing tier instead of stalling every lookup.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// Transient marks an error as safe to retry. Status carries the HTTP
// status code when the failure came from a response, zero otherwise.
type Transient struct {
	Err    error
	Status int
}

func (e *Transient) Error() string { return e.Err.Error() }

func (e *Transient) Unwrap() error { return e.Err }

// FromHTTPStatus classifies a non-OK response: retryable statuses
// (timeout, throttling, server-side failures) come back wrapped as
// Transient, everything else is returned unchanged.
func FromHTTPStatus(err error, status int) error {
	switch status {
	case 408, 429, 500, 502, 503, 504:
		return &Transient{Err: err, Status: status}
	}
	return err
}

// connectionFailures are wrapped-error fragments from HTTP clients that
// do not surface a typed net error.
var connectionFailures = []string{
	"connection reset by peer",
	"broken pipe",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
}

// IsTransient reports whether err is worth retrying: an explicit
// Transient, a network timeout, or a connection-level failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var t *Transient
	if errors.As(err, &t) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, frag := range connectionFailures {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
