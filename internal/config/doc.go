// Package config provides configuration structures and utilities for docgrab.
// It defines the crawl, extraction, and output options, the .docgrab
// configuration file with per-site profiles, and the topic shortcut table.
package config
