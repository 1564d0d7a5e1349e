package wanikani

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// maxPlainCacheKey is the longest endpoint+query string stored under its
// sanitized name. Longer keys (subjects requests carry up to 100 ids in
// the query) are hashed to keep file names within filesystem limits.
const maxPlainCacheKey = 100

// cacheEnvelope is the on-disk shape of one cached API response.
type cacheEnvelope struct {
	CachedAt time.Time       `json:"cached_at"`
	Data     json.RawMessage `json:"data"`
}

// cachePath maps a request key to its cache file.
func (c *Client) cachePath(key string) string {
	var name string
	if len(key) > maxPlainCacheKey {
		sum := sha3.Sum256([]byte(key))
		name = fmt.Sprintf("cache_%x", sum[:16])
	} else {
		replacer := strings.NewReplacer("/", "_", "?", "_", "&", "_", "=", "_")
		name = replacer.Replace(key)
	}
	return filepath.Join(c.cacheDir, name+".json")
}

// loadCache returns the cached response for key if it is still within the
// cache window. A missing, unreadable, or expired entry returns nil.
func (c *Client) loadCache(key string) json.RawMessage {
	if c.cacheDir == "" {
		return nil
	}

	data, err := os.ReadFile(c.cachePath(key)) //nolint:gosec // Cache dir is user-configured
	if err != nil {
		return nil
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}

	if time.Now().After(envelope.CachedAt.Add(c.cacheDuration)) {
		return nil
	}

	return envelope.Data
}

// saveCache stores a response under key. Cache write failures are logged
// and otherwise ignored; the response was already obtained.
func (c *Client) saveCache(key string, data json.RawMessage) {
	if c.cacheDir == "" {
		return
	}

	if err := os.MkdirAll(c.cacheDir, 0o750); err != nil {
		c.logger.Warn("failed to create cache directory", "dir", c.cacheDir, "error", err)
		return
	}

	envelope := cacheEnvelope{
		CachedAt: time.Now(),
		Data:     data,
	}
	encoded, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		c.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}

	if err := os.WriteFile(c.cachePath(key), encoded, 0o600); err != nil {
		c.logger.Warn("failed to write cache entry", "key", key, "error", err)
	}
}
