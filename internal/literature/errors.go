// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"errors"
	"fmt"

	"github.com/pdiddy/wellness-chat/internal/httputil"
	"github.com/pdiddy/wellness-chat/pkg/types"
)

// ErrInvalidQuery is returned when lookup parameters violate their
// constraints (empty query, inverted year range, non-positive result cap).
var ErrInvalidQuery = errors.New("invalid literature query")

// UpstreamError reports an unreachable endpoint or a response that could
// not be parsed into the expected shape. It aborts the whole call it
// occurred in.
type UpstreamError struct {
	// Endpoint names the NCBI service: esearch, efetch, or bioc.
	Endpoint string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by the underlying error, or 0
// when the failure was not an HTTP status.
func (e *UpstreamError) StatusCode() int {
	var se *httputil.StatusError
	if errors.As(e.Err, &se) {
		return se.StatusCode
	}
	return 0
}

// InvalidModeError is returned by Search for a mode other than abstracts
// or fulltext.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid search mode %q: want %q or %q", e.Mode, types.ModeAbstracts, types.ModeFullText)
}

// skipError is a per-item failure. It never escapes the package as an
// error; callers see it as a types.Skip.
type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

func skipf(format string, args ...any) error {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}
