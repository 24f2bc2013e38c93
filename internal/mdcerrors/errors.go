// Package mdcerrors defines the closed error-kind taxonomy shared by every
// pipeline stage, so the batch coordinator can record a stable kind tag
// alongside a human-readable message for each per-file result.
package mdcerrors

import (
	"fmt"
	"strings"
)

// Kind is the closed set of error variants the pipeline can surface.
type Kind int

const (
	// InvalidIdentifier: the parser could not extract a shape satisfying
	// the current strictness. Terminal for that file.
	InvalidIdentifier Kind = iota
	// Network: transport failure or retryable status exhausted retries.
	// Terminal per adapter; the registry advances to the next source.
	Network
	// HttpStatus: a definitive non-retryable status (404 etc); registry
	// advances.
	HttpStatus
	// NotFound: adapter reached a page but it was a soft-404. Registry
	// advances.
	NotFound
	// ParseFailure: adapter response lacked required fields. Registry
	// advances.
	ParseFailure
	// AllSourcesExhausted: no source produced a valid record. Terminal.
	AllSourcesExhausted
	// Filesystem: placement or sidecar write failure. Terminal for that
	// file; prior sidecar writes in the destination folder may remain.
	Filesystem
	// Cancelled: coordinator-level abort. Terminal.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case InvalidIdentifier:
		return "InvalidIdentifier"
	case Network:
		return "Network"
	case HttpStatus:
		return "HttpStatus"
	case NotFound:
		return "NotFound"
	case ParseFailure:
		return "ParseFailure"
	case AllSourcesExhausted:
		return "AllSourcesExhausted"
	case Filesystem:
		return "Filesystem"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carrying a Kind, an optional HTTP status
// code (meaningful only for HttpStatus), a message, and an optional wrapped
// cause.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Kind == HttpStatus && e.Code != 0 {
		return fmt.Sprintf("%s(%d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NewHTTPStatus constructs an HttpStatus error carrying the response code.
func NewHTTPStatus(code int, message string) *Error {
	return &Error{Kind: HttpStatus, Code: code, Message: message}
}

// Is reports whether err is an *Error of the given kind, following Unwrap
// chains the way errors.Is does for a single concrete type.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		break
	}
	return false
}

// retryableStatus is the set of HTTP statuses the gateway retries before
// giving up and surfacing a Network error.
var retryableStatus = map[int]bool{
	429: true, 500: true, 502: true, 503: true, 504: true,
}

// IsRetryableStatus reports whether the given HTTP status code should be
// retried by the gateway rather than surfaced immediately as HttpStatus.
func IsRetryableStatus(code int) bool {
	return retryableStatus[code]
}

// cloudflareMarkers is the closed set of lowercased substrings that trigger
// automatic fallback to the hardened backend when present in an error's
// message.
var cloudflareMarkers = []string{"cloudflare", "403", "cf-ray", "just a moment"}

// LooksLikeCloudflareChallenge reports whether the lowercased message
// contains any of the markers the hardened-backend auto-fallback watches
// for.
func LooksLikeCloudflareChallenge(lowerMessage string) bool {
	for _, marker := range cloudflareMarkers {
		if strings.Contains(lowerMessage, marker) {
			return true
		}
	}
	return false
}
