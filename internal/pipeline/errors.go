package pipeline

import "errors"

// ErrArticleSkipped is returned by a step when an article should be dropped
// from the run without counting as a failure, e.g. because it carries no
// usable content. The batch layer records it under the skipped count.
var ErrArticleSkipped = errors.New("article skipped")
