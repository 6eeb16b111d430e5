package github

import (
	"errors"
	"fmt"
)

// HTTPError is returned for any non-2xx API response. Rate-limit detection is
// done on the typed status code, not on message text.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("github api: status %d for %s", e.StatusCode, e.URL)
}

// IsRateLimited reports whether err is the 403 rate-limit signal that
// triggers the degraded-mode fallback chain. Every other failure (404, 5xx,
// timeout, DNS) is a caller-visible error with no fallback.
func IsRateLimited(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 403
}
