package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [source-path]",
	Short: "Discover services without running the full pipeline",
	Long: `Discover scans the source tree and identifies its deployable services
without checking, bundling or reporting. Useful for seeing what the other
commands will operate on.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDiscover(sourceArg(args)); err != nil {
			fmt.Fprintf(os.Stderr, "Service discovery failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runDiscover(sourcePath string) error {
	ctx := context.Background()

	project, err := openProject(ctx, sourcePath)
	if err != nil {
		return err
	}

	fmt.Printf("Discovered %d service(s):\n", len(project.services))
	for _, service := range project.services {
		fmt.Printf("  - %s: role=%s build=%s\n", service.Name, service.Role, service.Build)

		if service.BuildPath != "" {
			fmt.Printf("    BuildPath: %s\n", service.BuildPath)
		}
		if service.Image != "" {
			fmt.Printf("    Image: %s\n", service.Image)
		}
		if service.PublishDir != "" {
			fmt.Printf("    PublishDir: %s\n", service.PublishDir)
		}
		if service.Port != 0 {
			fmt.Printf("    Port: %d\n", service.Port)
		}

		fmt.Printf("    Config sources (%d):\n", len(service.Configs))
		for _, config := range service.Configs {
			fmt.Printf("      - %s: %s\n", config.Type, config.Path)
		}
		fmt.Println()
	}

	for _, warning := range project.warnings {
		fmt.Printf("warning: %s: %s\n", warning.Path, warning.Detail)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
