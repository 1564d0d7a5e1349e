// Package furigana implements the furigana segmentation and annotation
// engine at the heart of nhk-web-easy.
//
// # Architecture
//
// The engine takes an article field (HTML carrying <ruby> annotations, or
// plain text with none) and produces an ordered sequence of typed segments:
// literal text, structural markup, and kanji groups paired with a phonetic
// reading and a knowledge classification. One segmentation feeds three
// consumers: the variant renderer, the statistics aggregator, and the
// preview truncator.
//
// Two capabilities are injected:
//
//   - ReadingSource decides where a kanji run's reading comes from.
//     Embedded readings are carried from ruby markup; the kagome-backed
//     source synthesizes readings for plain text.
//   - KnowledgePolicy decides whether the reader already knows a kanji.
//     The binary policy consults a learned-kanji set; the leveled policy
//     consults a proficiency-tier table.
//
// Design decision: The three historical engine variants (embedded-reading
// with binary knowledge, embedded-reading with levels, synthesized-reading
// with binary knowledge) are collapsed into one Segmenter parameterized
// over the two capability interfaces. Each variant's behavior is preserved
// by its policy/source pair; the structural walk is written once.
//
// # Components
//
//   - IsKanji: character-class detection over the CJK Unified Ideographs
//     block
//   - Segmenter: the markup-mode tree walk and the plain-text scanner
//   - RenderToggle: the three-variant toggle HTML renderer
//   - Stats / LeveledStats: per-character statistics
//   - Truncate: the character-budgeted preview prefix
//   - Processor: per-article orchestration producing the enriched fields
//
// # Usage
//
//	policy := furigana.NewLearnedSet("data/learned_kanji.json", logger)
//	source, err := furigana.NewKagomeSource(furigana.DictIPA)
//	seg := furigana.NewSegmenter(policy, source)
//	segments := seg.Segment("今日は良い天気です。")
//	html := furigana.RenderToggle(segments)
//
// All engine objects are read-only after construction and safe to share
// across goroutines processing different articles.
package furigana
