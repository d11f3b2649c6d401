package datacore

import (
	"errors"
	"fmt"
)

// ErrFetch is the sentinel every download failure matches via errors.Is.
var ErrFetch = errors.New("crew download failed")

// Failure reasons carried by FetchError.
const (
	ReasonTransport = "transport"
	ReasonStatus    = "status"
	ReasonRead      = "read"
	ReasonDecode    = "decode"
)

// FetchError describes a failed crew download.
type FetchError struct {
	URL        string
	Reason     string
	StatusCode int    // set for ReasonStatus
	Body       string // leading bytes of a non-success response
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Reason == ReasonStatus:
		return fmt.Sprintf("failed to download data from %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("failed to download data from %s: %s: %v", e.URL, e.Reason, e.Err)
	default:
		return fmt.Sprintf("failed to download data from %s: %s", e.URL, e.Reason)
	}
}

// Unwrap exposes the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Is matches ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
