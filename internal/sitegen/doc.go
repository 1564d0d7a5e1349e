// Package sitegen renders enriched articles into a static site.
//
// The output is self-contained: an index page with article cards, one page
// per article, and the stylesheet and script that implement the furigana
// toggle. The three-span toggle markup produced by the furigana renderer is
// inert on its own; the CSS emitted here selects which span is visible and
// the script persists the reader's choice in localStorage.
//
// Generated HTML fields are injected unescaped via template.HTML. That is
// safe because they come from the furigana renderer, which escapes all text
// content itself; nothing user-controlled reaches the templates raw.
package sitegen
