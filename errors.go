package cheddargetter

import (
	goerrors "errors"
	"net/http"

	ierr "github.com/flexprice/cheddargetter-go/internal/errors"
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrValidation marks a request rejected locally before any network call.
	ErrValidation = ierr.ErrValidation
	// ErrHTTPClient marks a transport-level failure (DNS, connect, timeout).
	ErrHTTPClient = ierr.ErrHTTPClient
	// ErrParse marks a required field missing or malformed in an otherwise
	// successful response.
	ErrParse = ierr.ErrParse
	// ErrProviderRejected marks a structured error payload returned by the
	// provider; the *ProviderError carries the individual CGError records.
	ErrProviderRejected = ierr.ErrProviderRejected
	// ErrNotFound additionally matches provider rejections with a 404 status.
	ErrNotFound = ierr.ErrNotFound
)

// ProviderError is returned when the provider answers with a structured
// <errors> payload, either on an HTTP error status or embedded in an
// otherwise successful document. It matches ErrProviderRejected, and
// ErrNotFound as well when the status was 404.
type ProviderError struct {
	// StatusCode is the HTTP status of the response that carried the payload.
	StatusCode int
	// Errors holds the individual business-rule errors the provider reported.
	Errors []CGError

	err error
}

func newProviderError(statusCode int, cgErrs []CGError) *ProviderError {
	builder := ierr.NewError("provider rejected request").
		WithReportableDetails(map[string]any{
			"status_code": statusCode,
		})
	if len(cgErrs) > 0 {
		builder = builder.WithHint(cgErrs[len(cgErrs)-1].Message)
	}

	err := builder.Mark(ierr.ErrProviderRejected)
	if statusCode == http.StatusNotFound {
		err = ierr.WithError(err).Mark(ierr.ErrNotFound)
	}

	return &ProviderError{
		StatusCode: statusCode,
		Errors:     cgErrs,
		err:        err,
	}
}

func (e *ProviderError) Error() string {
	return e.err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.err
}

// AsProviderError checks if an error is a provider rejection
func AsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	if goerrors.As(err, &providerErr) {
		return providerErr, true
	}
	return nil, false
}
