package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <recipe>",
	Short: "Resolve a recipe into a concrete dependency graph",
	Long: `Resolves the named recipe and its transitive dependencies into a
concrete graph: one pinned version and a complete variant assignment per
package, validated against every conflict rule for the given compiler and
platform.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, result, err := resolveFromFlags(args[0])
		if err != nil {
			return err
		}

		fmt.Print(result.Graph.String())

		stats := result.Graph.ComputeStats()
		fmt.Printf("\n%d packages: %d direct, %d transitive, %d build-only\n",
			stats.TotalSpecs, stats.DirectDependencies, stats.TransitiveDependencies, stats.BuildOnly)
		return nil
	},
}

func init() {
	addResolutionFlags(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}
