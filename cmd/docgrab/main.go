// Package main provides the entry point for the docgrab CLI.
//
// docgrab crawls documentation sites politely and converts each page
// into structured Markdown for offline use.
//
// Usage:
//
//	docgrab fetch behavior-tree
//	docgrab fetch --depth 2 --combined ai navigation
//
// See --help for all available options.
package main

// main is the entry point for docgrab.
func main() {
	Execute()
}
