package domain

import "errors"

// Sentinel errors for preview operations
var (
	// ErrDecoderLoad indicates the optional decoder extension failed to load or initialize
	ErrDecoderLoad = errors.New("decoder extension failed to load")

	// ErrDecoderNotFound indicates no decoder is registered under the requested id
	ErrDecoderNotFound = errors.New("decoder extension not found")

	// ErrSubtitleUnavailable indicates the subtitle resource could not be fetched
	ErrSubtitleUnavailable = errors.New("subtitle unavailable")

	// ErrServerOffline indicates the index server is unreachable
	ErrServerOffline = errors.New("index server is unreachable")

	// ErrAuthFailed indicates the stored token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrObjectNotFound indicates a local object reference was revoked or never created
	ErrObjectNotFound = errors.New("object reference not found")
)

// DecoderLoadError reports a rejected decoder load. Its message is the
// rejection's own message so it can be shown to the user as-is.
type DecoderLoadError struct {
	DecoderID string
	Err       error
}

func (e *DecoderLoadError) Error() string {
	return e.Err.Error()
}

// Unwrap matches both ErrDecoderLoad and the underlying cause
func (e *DecoderLoadError) Unwrap() []error {
	return []error{ErrDecoderLoad, e.Err}
}
