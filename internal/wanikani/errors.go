package wanikani

import "errors"

// Sentinel errors for the WaniKani client.
var (
	// ErrMissingToken is returned when no API token was supplied and the
	// WANIKANI_API_TOKEN environment variable is empty.
	ErrMissingToken = errors.New("wanikani api token is required")

	// ErrUnexpectedStatus is returned when the API answers with a
	// non-200 status code.
	ErrUnexpectedStatus = errors.New("unexpected api response status")
)
