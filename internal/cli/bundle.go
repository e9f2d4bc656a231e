package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var bundleVerbose bool

var bundleCmd = &cobra.Command{
	Use:   "bundle [source-path]",
	Short: "Compute the publish set under the ignore rules",
	Long: `Bundle applies the publish ignore rules to the frontend publish directory
and reports what would ship: the file list, content digests and total size.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBundle(sourceArg(args)); err != nil {
			fmt.Fprintf(os.Stderr, "Bundle failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runBundle(sourcePath string) error {
	ctx := context.Background()

	project, err := openProject(ctx, sourcePath)
	if err != nil {
		return err
	}

	manifest, err := project.buildBundle()
	if err != nil {
		return err
	}

	if bundleVerbose {
		for _, file := range manifest.Files {
			fmt.Printf("  %s  %8d  %s\n", file.SHA1, file.Size, file.Path)
		}
	}

	fmt.Printf("Publish dir: %s\n", manifest.PublishDir)
	fmt.Printf("Files:       %d (%d excluded by ignore rules)\n", len(manifest.Files), manifest.Excluded)
	fmt.Printf("Total size:  %s\n", manifest.HumanSize())

	if len(manifest.Files) == 0 {
		fmt.Println("warning: publish set is empty")
	}

	return nil
}

func init() {
	bundleCmd.Flags().BoolVarP(&bundleVerbose, "verbose", "v", false, "list every published file")
	rootCmd.AddCommand(bundleCmd)
}
