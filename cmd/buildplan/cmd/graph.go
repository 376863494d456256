package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var graphDOT bool

var graphCmd = &cobra.Command{
	Use:   "graph <recipe>",
	Short: "Print the resolved dependency graph",
	Long: `Resolves the named recipe and prints its dependency graph, either as
an indented tree (default) or as Graphviz DOT for rendering:

  buildplan graph fyaml --compiler gcc@12.1.0 --dot | dot -Tsvg -o deps.svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, result, err := resolveFromFlags(args[0])
		if err != nil {
			return err
		}

		if graphDOT {
			fmt.Print(result.Graph.ToDOT())
			return nil
		}
		fmt.Print(result.Graph.String())
		return nil
	},
}

func init() {
	addResolutionFlags(graphCmd)
	graphCmd.Flags().BoolVar(&graphDOT, "dot", false, "emit Graphviz DOT instead of a tree")
	rootCmd.AddCommand(graphCmd)
}
