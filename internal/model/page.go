package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

// Page represents a fetched HTTP page.
// The fetcher stores the raw body so the article-body container can be
// extracted later without refetching; the hash supports deduplication and
// change detection between runs.
type Page struct {
	// URL is the full URL the page was fetched from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Body is the raw response body, truncated to the fetcher's body
	// size limit.
	Body []byte `json:"-"` // Excluded from JSON to keep the store small

	// Hash is the SHA3-256 hash of Body in hex.
	Hash string `json:"hash"`

	// FetchedAt is when the page was retrieved.
	FetchedAt time.Time `json:"fetched_at"`
}

// ComputeHash calculates and sets the SHA3-256 hash of the page body.
// Call after setting Body.
func (p *Page) ComputeHash() {
	if len(p.Body) == 0 {
		p.Hash = ""
		return
	}
	sum := sha3.Sum256(p.Body)
	p.Hash = hex.EncodeToString(sum[:])
}

// IsHTML reports whether the content type indicates an HTML document.
func (p *Page) IsHTML() bool {
	return p.ContentType == "text/html" ||
		p.ContentType == "application/xhtml+xml" ||
		// Handle content types with charset suffix
		len(p.ContentType) > 9 && p.ContentType[:9] == "text/html"
}
