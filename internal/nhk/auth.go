package nhk

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// JWTPayload is the subset of the z_at token claims worth inspecting.
// The site issues the token after its terms-acceptance flow; it is
// supplied to this tool via environment or config and only decoded here,
// never minted or refreshed.
type JWTPayload struct {
	Subject     string `json:"sub"`
	Issuer      string `json:"iss"`
	Scope       string `json:"scope"`
	ProfileType string `json:"profileType"`
	ExpiresAt   int64  `json:"exp"`
	IssuedAt    int64  `json:"iat"`
}

// DecodeJWTPayload decodes the claims of a JWT without verifying its
// signature. Verification is pointless here: the token is presented to
// the site, not accepted from anyone.
func DecodeJWTPayload(token string) (*JWTPayload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidToken, len(parts))
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var payload JWTPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &payload, nil
}

// TokenExpiry returns the expiry time of a z_at token.
func TokenExpiry(token string) (time.Time, error) {
	payload, err := DecodeJWTPayload(token)
	if err != nil {
		return time.Time{}, err
	}
	if payload.ExpiresAt == 0 {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}
	return time.Unix(payload.ExpiresAt, 0), nil
}

// CheckToken validates the configured z_at token before fetching.
// An undecodable token returns ErrInvalidToken, an expired one
// ErrTokenExpired; the caller decides whether to proceed anyway (the
// feed sometimes answers without a token).
func CheckToken(token string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	expiry, err := TokenExpiry(token)
	if err != nil {
		return err
	}

	if time.Now().After(expiry) {
		return fmt.Errorf("%w: expired %s, accept the site terms in a browser and copy the fresh z_at cookie",
			ErrTokenExpired, expiry.Format(time.RFC3339))
	}

	logger.Debug("access token valid", "expires", expiry.Format(time.RFC3339))
	return nil
}
