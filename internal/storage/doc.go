// Package storage persists article collections as JSON files.
//
// There is deliberately no database: the data contract is plain JSON
// files (articles.json for raw fetches, processed_articles.json for
// enriched ones) and downstream tooling reads them directly. Writes are
// atomic (temp file + rename) so a crash mid-write never corrupts the
// store.
package storage
