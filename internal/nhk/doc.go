// Package nhk fetches articles from NHK News Web Easy.
//
// # Architecture
//
// The package covers three concerns:
//
//   - Feed: the news-list.json endpoint listing recent easy-news
//     articles per date, with an HTML link-scrape fallback when the feed
//     is unavailable.
//   - Fetcher: per-article page retrieval with politeness delay, URL
//     deduplication, a body size limit, article extraction (title,
//     plain-text content, date) and optional image download.
//   - Auth: inspection of the z_at access token (a JWT) the site sets
//     after terms acceptance. The token itself is supplied via
//     environment or config; this package only decodes and validates it.
//
// # Components
//
//   - Feed / FeedEntry: article listing
//   - Fetcher: page retrieval and extraction
//   - DecodeJWTPayload / TokenExpiry / CheckToken: token inspection
//
// Extraction uses ordered selector fallbacks because the site's markup
// has changed over time; the first matching selector wins.
package nhk
