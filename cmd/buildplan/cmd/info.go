package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <recipe>",
	Short: "Show a recipe's versions, variants and dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}
		recipe, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", recipe.Name)
		if recipe.Homepage != "" {
			fmt.Printf("  homepage:    %s\n", recipe.Homepage)
		}
		if recipe.License != "" {
			fmt.Printf("  license:     %s\n", recipe.License)
		}
		if len(recipe.Maintainers) > 0 {
			fmt.Printf("  maintainers: %s\n", strings.Join(recipe.Maintainers, ", "))
		}

		fmt.Println("\nVersions:")
		for _, v := range recipe.Versions {
			switch {
			case v.IsBranch():
				fmt.Printf("  %-12s branch %s\n", v.ID, v.Branch)
			case v.IsUnverified():
				fmt.Printf("  %-12s (placeholder digest)\n", v.ID)
			default:
				fmt.Printf("  %-12s sha256 %s...\n", v.ID, v.SHA256[:12])
			}
		}

		if len(recipe.Variants) > 0 {
			fmt.Println("\nVariants:")
			for _, v := range recipe.Variants {
				domain := "true/false"
				if !v.IsBool() {
					domain = strings.Join(v.Values, "/")
				}
				fmt.Printf("  %-12s default=%-10s [%s]  %s\n", v.Name, v.Default, domain, v.Description)
			}
		}

		if len(recipe.Dependencies) > 0 {
			fmt.Println("\nDependencies:")
			for _, d := range recipe.Dependencies {
				kinds := make([]string, 0, len(d.EffectiveKinds()))
				for _, k := range d.EffectiveKinds() {
					kinds = append(kinds, string(k))
				}
				line := fmt.Sprintf("  %s (%s)", d.Name, strings.Join(kinds, ","))
				if d.Constraint != "" {
					line += " " + d.Constraint
				}
				fmt.Println(line)
			}
		}

		if len(recipe.Conflicts) > 0 {
			fmt.Println("\nConflicts:")
			for _, c := range recipe.Conflicts {
				fmt.Printf("  when %s: %s\n", c.When, c.Message)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
