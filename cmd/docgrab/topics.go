package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/docgrab/docgrab/internal/config"
)

// NewTopicsCmd creates the topics command.
func NewTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List available topic shortcuts",
		Long: `List the topic shortcuts that "docgrab fetch" accepts in place of a URL.

Shortcuts defined in the configuration file are listed alongside the
built-in set. The configuration file is searched for in the current
directory and the home directory unless --config points elsewhere.`,
		Run: runTopicsCmd,
	}

	cmd.Flags().StringP("config", "c", "", "Path to configuration file")

	return cmd
}

// runTopicsCmd prints every known topic shortcut in alphabetical order.
// Configuration file errors are ignored here so the built-in shortcuts
// remain listable even with a broken config.
func runTopicsCmd(cmd *cobra.Command, _ []string) {
	configPath, _ := cmd.Flags().GetString("config")

	var extra map[string]string
	if path := config.FindConfigFile(configPath); path != "" {
		if file, err := config.LoadConfigFile(path); err == nil {
			extra = file.Topics
		}
	}

	shortcuts := config.Shortcuts(extra)
	names := make([]string, 0, len(shortcuts))
	for name := range shortcuts {
		names = append(names, name)
	}
	sort.Strings(names)

	titler := cases.Title(language.English)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available topic shortcuts:")
	fmt.Fprintln(out)
	for _, name := range names {
		display := titler.String(strings.ReplaceAll(shortcuts[name], "-", " "))
		fmt.Fprintf(out, "  %-20s %s\n", name, display)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, `Pass a shortcut, a full slug, or a URL to "docgrab fetch".`)
}
