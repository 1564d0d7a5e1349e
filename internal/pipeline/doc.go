// Package pipeline provides a framework for executing enrichment steps in
// sequence.
//
// The pipeline pattern is used to take raw articles through multiple stages:
// validation, furigana annotation, and statistics. Each stage is implemented
// as a Step that receives the article and mutates it in place.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running runs
// 4. It enables potential parallelization of independent steps in the future
//
// The pipeline supports both single-article execution and batch processing
// with concurrency control using errgroup. A batch run produces a RunSummary
// stamped with a ULID so runs can be correlated across logs and reports.
package pipeline
