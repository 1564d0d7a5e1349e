// Package model defines the core data structures used throughout nhk-web-easy.
//
// This package contains the following main types:
//   - Article: One NHK News Web Easy article, raw and enriched
//   - Segment: The atomic unit of segmented article text
//   - Classification: Knowledge classification attached to a kanji group
//   - Stats: Per-article kanji statistics
//   - Page: A fetched HTTP page with its body hash
//   - RunSummary: The aggregate result of one pipeline run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (furigana, nhk, pipeline, sitegen, report)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for persistence in the
// article store and for site generation.
package model
