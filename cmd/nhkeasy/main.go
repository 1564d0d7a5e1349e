// Package main provides the entry point for the nhkeasy CLI.
//
// nhkeasy builds a personal NHK News Web Easy reader: it scrapes easy
// news articles, annotates kanji with furigana based on the kanji you
// have learned on WaniKani, and generates a static site where furigana
// visibility can be toggled per reader.
//
// Usage:
//
//	nhkeasy run
//	nhkeasy fetch
//	nhkeasy process
//	nhkeasy generate
//	nhkeasy serve --live-reload
//
// See --help for all available options.
package main

// main is the entry point for nhkeasy.
func main() {
	Execute()
}
