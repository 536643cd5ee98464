package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Show registered handlers, namespace groups, and dispatch patterns",
	Long: `Print the dispatch report: every captured load handler with its
owner, priority, and pattern, grouped by namespace with each group's
combined dispatch pattern.

Examples:
  framemaster plugins                       # Human-readable report
  framemaster plugins --json                # Machine-readable report
  framemaster plugins --match a/test.txt    # Which handlers would run`,
	RunE: runPlugins,
}

var (
	pluginsJSON      bool
	pluginsMatch     string
	pluginsNamespace string
)

func init() {
	rootCmd.AddCommand(pluginsCmd)

	pluginsCmd.Flags().BoolVar(&pluginsJSON, "json", false, "Output as JSON")
	pluginsCmd.Flags().StringVar(&pluginsMatch, "match", "", "Show the handlers that would run for this resource path")
	pluginsCmd.Flags().StringVar(&pluginsNamespace, "namespace", "file", "Namespace for --match")
}

func runPlugins(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}

	if pluginsMatch != "" {
		members, err := sess.engine.WhatWouldMatch(pluginsNamespace, pluginsMatch)
		if err != nil {
			return err
		}
		if pluginsJSON {
			return json.NewEncoder(os.Stdout).Encode(members)
		}
		if len(members) == 0 {
			fmt.Printf("No handlers match %q in namespace %q\n", pluginsMatch, pluginsNamespace)
			return nil
		}
		fmt.Printf("Handlers for %q in namespace %q, in execution order:\n", pluginsMatch, pluginsNamespace)
		for i, m := range members {
			fmt.Printf("  %d. %s (priority %d, pattern %s)\n", i+1, m.Owner, m.Priority, m.Pattern)
		}
		return nil
	}

	report, err := sess.engine.Report()
	if err != nil {
		return err
	}
	if pluginsJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Printf("Handlers: %d  Finalizers: %d  Groups: %d\n",
		report.TotalHandlers, report.TotalFinalizers, report.GroupCount)
	for _, group := range report.Groups {
		fmt.Printf("\nNamespace %q\n", group.Namespace)
		fmt.Printf("  Combined pattern: %s\n", group.Combined)
		for _, m := range group.Members {
			fmt.Printf("  - %s (priority %d): %s\n", m.Owner, m.Priority, m.Pattern)
		}
	}
	return nil
}
