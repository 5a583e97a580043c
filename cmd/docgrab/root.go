// Package main provides the entry point for the docgrab CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docgrab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docgrab",
		Short: "Polite documentation crawler producing structured Markdown",
		Long: `docgrab crawls documentation sites and converts each page into
structured Markdown that preserves headings, tables, lists, and code blocks.

Crawls are depth-bounded and polite: robots.txt is honored, requests to the
same host are rate limited, and fetched pages are cached on disk so repeated
runs do not hit the site again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewTopicsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
