// Package preview provides a local HTTP server for the generated site.
//
// The server serves the output directory as static files so the site can
// be checked before publishing. With live reload enabled it additionally
// exposes a websocket endpoint at /ws: the server polls the output
// directory for modification-time changes and pushes a "reload" message
// to connected pages, which the generated script.js picks up to refresh
// the browser.
//
// Design decision: We poll modification times instead of using a
// filesystem-notification library because:
//  1. The output directory is rewritten in one burst by the generator,
//     so sub-second latency is not needed
//  2. Polling behaves identically across platforms and network mounts
//  3. It keeps the server free of platform-specific watcher code
package preview
