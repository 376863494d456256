package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	gobuildplan "github.com/hpcforge/go-buildplan"
	"github.com/hpcforge/go-buildplan/planfile"
)

var (
	planOutput string
	planFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan <recipe>",
	Short: "Compile a recipe into a dependency-ordered build plan",
	Long: `Resolves the named recipe and compiles the resulting graph into a
build plan: a deterministic, dependency-ordered package sequence with the
build arguments derived from each package's variant assignment.

The plan is written as canonical JSON by default; --format yaml produces a
YAML rendering for review. With --output the plan goes to a file instead
of standard output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, result, err := resolveFromFlags(args[0])
		if err != nil {
			return err
		}

		plan, err := gobuildplan.NewBuildPlanCompiler(registry).Compile(result.Graph)
		if err != nil {
			return err
		}

		opts, err := resolutionOptions()
		if err != nil {
			return err
		}
		doc := planfile.New(plan, opts.Compiler, opts.Platform)

		switch planFormat {
		case "json":
			if planOutput != "" {
				if err := doc.WriteFile(planOutput); err != nil {
					return err
				}
				digest, err := doc.Digest()
				if err != nil {
					return err
				}
				log.Info("plan written", "path", planOutput, "packages", len(plan.Nodes), "digest", digest[:12])
				return nil
			}
			_, err := doc.WriteTo(os.Stdout)
			return err
		case "yaml":
			if planOutput != "" {
				f, err := os.Create(planOutput)
				if err != nil {
					return err
				}
				defer f.Close()
				return doc.EncodeYAML(f)
			}
			return doc.EncodeYAML(os.Stdout)
		default:
			return fmt.Errorf("invalid --format value %q (want json or yaml)", planFormat)
		}
	},
}

func init() {
	addResolutionFlags(planCmd)
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "write the plan to a file instead of stdout")
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(planCmd)
}
