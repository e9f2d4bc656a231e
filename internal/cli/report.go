package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jurisia/zarpar/internal/report"
	"github.com/spf13/cobra"
)

var reportOutDir string

var reportCmd = &cobra.Command{
	Use:   "report [source-path]",
	Short: "Generate deployment-report.txt",
	Long: `Report runs the pipeline and writes the deployment report: timestamp,
version, build size, URLs, configuration variables with secrets redacted,
check results and the next-steps checklist.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(sourceArg(args)); err != nil {
			fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runReport(sourcePath string) error {
	ctx := context.Background()

	project, err := openProject(ctx, sourcePath)
	if err != nil {
		return err
	}

	data, err := buildReportData(ctx, project)
	if err != nil {
		return err
	}

	outDir := reportOutDir
	if outDir == "" {
		outDir = project.root
	}

	path, err := report.Write(outDir, data)
	if err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", path)
	return nil
}

// buildReportData runs the check, bundle and env stages and assembles the
// report input
func buildReportData(ctx context.Context, project *project) (report.Data, error) {
	violations, err := project.checkContainer()
	if err != nil {
		return report.Data{}, err
	}

	manifest, err := project.buildBundle()
	if err != nil {
		return report.Data{}, err
	}

	vars, err := project.extractEnv(ctx)
	if err != nil {
		return report.Data{}, err
	}

	data := report.NewData(project.manifest.Project, project.manifest.Version, vars)
	data.FrontendURL = project.manifest.Frontend.URL
	data.BackendURL = project.manifest.Backend.URL
	data.HealthPath = project.manifest.Backend.HealthPath
	data.BuildSize = manifest.HumanSize()
	data.FileCount = len(manifest.Files)
	data.ExcludedCount = manifest.Excluded
	data.Violations = violations
	data.Warnings = project.warnings

	return data, nil
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutDir, "out", "o", "", "directory to write the report to (default: source path)")
	rootCmd.AddCommand(reportCmd)
}
