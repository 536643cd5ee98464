package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Transform the configured roots once and write the output",
	Long: `Run every resource under the configured build roots through the
transform pipeline and write the results to the output directory.

Examples:
  framemaster build               # Build using .framemaster.yml settings
  framemaster build --output out  # Build to a specific output directory`,
	RunE: runBuild,
}

var buildOutput string

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory")
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	sess, err := newSession()
	if err != nil {
		return err
	}

	output := sess.cfg.Build.Output
	if buildOutput != "" {
		output = buildOutput
	}

	ctx := cmd.Context()
	if err := sess.bundler.RunStarts(ctx); err != nil {
		return fmt.Errorf("plugin start hooks failed: %w", err)
	}

	total := 0
	for _, root := range sess.cfg.Build.Roots {
		count, err := sess.bundler.BuildDir(ctx, root, output)
		if err != nil {
			return fmt.Errorf("building %s: %w", root, err)
		}
		total += count
	}

	fmt.Printf("Built %d resources to %s in %v\n", total, output, time.Since(startTime).Round(time.Millisecond))
	return nil
}
