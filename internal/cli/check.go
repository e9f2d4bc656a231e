package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [source-path]",
	Short: "Verify the backend container against the deploy contract",
	Long: `Check parses the backend Dockerfile and verifies the configuration the
deploy pipeline depends on: the exposed port, the health check endpoint and
timing, the gunicorn worker count and the runtime user. It also warns about
deployment configs for platforms this pipeline does not deploy to.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCheck(sourceArg(args)); err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runCheck(sourcePath string) error {
	ctx := context.Background()

	project, err := openProject(ctx, sourcePath)
	if err != nil {
		return err
	}

	violations, err := project.checkContainer()
	if err != nil {
		return err
	}

	for _, warning := range project.warnings {
		fmt.Printf("warning: %s: %s\n", warning.Path, warning.Detail)
	}

	if len(violations) > 0 {
		for _, violation := range violations {
			fmt.Printf("violation: %s\n", violation)
		}
		return fmt.Errorf("%d contract violation(s)", len(violations))
	}

	fmt.Println("Container conforms to the deploy contract")
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
