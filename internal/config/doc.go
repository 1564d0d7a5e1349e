// Package config provides configuration structures and utilities for the
// NHK News Web Easy pipeline. It defines scraping, enrichment, site
// generation and report settings, loaded from a YAML file with environment
// overrides for the secret tokens.
package config
