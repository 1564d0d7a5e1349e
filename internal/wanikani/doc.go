// Package wanikani provides the WaniKani API v2 client and the kanji
// level table used to classify article kanji.
//
// # Architecture
//
// The package has two independent halves:
//
//   - Client talks to api.wanikani.com with a Bearer token, pages through
//     the assignments and subjects collections, and distills the set of
//     kanji the learner has unlocked. Responses are cached on disk so a
//     re-run inside the cache window makes no network calls at all.
//   - Levels loads the static kanji-to-level reference table and answers
//     per-character level lookups for the leveled knowledge policy. It
//     can also export the table as JavaScript constants for client-side
//     threshold rendering.
//
// # Usage
//
//	client, err := wanikani.NewClient(token,
//		wanikani.WithCacheDir(cacheDir),
//	)
//	if err != nil {
//		return err
//	}
//	count, err := client.SaveLearnedKanji(ctx, "data/learned_kanji.json")
//
// The client never mutates WaniKani state; every request is a GET.
package wanikani
