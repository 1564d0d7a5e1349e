package nhk

import "errors"

// Sentinel errors for the NHK fetching layer.
var (
	// ErrFeedUnavailable is returned when neither the JSON feed nor the
	// HTML fallback produced any article entries.
	ErrFeedUnavailable = errors.New("news feed unavailable")

	// ErrUnexpectedStatus is returned when a page fetch answers with a
	// non-200 status code.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrEmptyContent is returned when an article page yielded no usable
	// body text. Such articles are skipped, not failed.
	ErrEmptyContent = errors.New("article has no extractable content")

	// ErrInvalidToken is returned when the z_at token is not a decodable
	// JWT.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrTokenExpired is returned when the z_at token's exp claim is in
	// the past.
	ErrTokenExpired = errors.New("access token has expired")
)
