package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env [source-path]",
	Short: "Extract configuration variables from discovered services",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runEnv(sourceArg(args)); err != nil {
			fmt.Fprintf(os.Stderr, "Environment extraction failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runEnv(sourcePath string) error {
	ctx := context.Background()

	project, err := openProject(ctx, sourcePath)
	if err != nil {
		return err
	}

	vars, err := project.extractEnv(ctx)
	if err != nil {
		return err
	}

	if len(vars) == 0 {
		fmt.Println("No configuration variables found")
		return nil
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := vars[name]
		value := v.Value
		if v.Sensitive {
			value = "********"
		}
		fmt.Printf("%s = %s\n", name, value)
		fmt.Printf("  source: %s (%s)\n", v.Source, v.Kind)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(envCmd)
}
