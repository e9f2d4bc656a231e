package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jurisia/zarpar/internal/export"
	"github.com/jurisia/zarpar/internal/report"
	"github.com/jurisia/zarpar/internal/schema"
	"github.com/spf13/cobra"
)

var deployJSON bool

var deployCmd = &cobra.Command{
	Use:   "deploy [source-path]",
	Short: "Run the full preflight pipeline",
	Long: `Deploy runs discovery, the container check, the publish bundle and the
report in sequence, failing fast on the first error. With --json the full
result is exported to stdout instead of the report file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDeploy(sourceArg(args)); err != nil {
			fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func runDeploy(sourcePath string) error {
	ctx := context.Background()

	project, err := openProject(ctx, sourcePath)
	if err != nil {
		return err
	}

	fmt.Printf("Discovered %d service(s):\n", len(project.services))
	for _, service := range project.services {
		fmt.Printf("  - %s (%s, build=%s)\n", service.Name, service.Role, service.Build)
	}

	violations, err := project.checkContainer()
	if err != nil {
		return err
	}

	bundleManifest, err := project.buildBundle()
	if err != nil {
		return err
	}
	fmt.Printf("Publish set: %d file(s), %s\n", len(bundleManifest.Files), bundleManifest.HumanSize())

	vars, err := project.extractEnv(ctx)
	if err != nil {
		return err
	}

	if deployJSON {
		deployment := schema.NewDeployment(project.manifest.Project, project.manifest.Version)
		for _, service := range project.services {
			deployment.AddService(service)
		}
		for _, warning := range project.warnings {
			deployment.AddWarning(warning)
		}
		deployment.Violations = violations
		deployment.Bundle = bundleManifest
		for name, v := range vars {
			value := v.Value
			if v.Sensitive {
				value = "" // never export secret values
			}
			deployment.Environment[name] = schema.EnvVar{
				Value:     value,
				Source:    v.Source,
				Sensitive: v.Sensitive,
			}
		}

		output, err := export.NewJSONExporter().Export(deployment)
		if err != nil {
			return fmt.Errorf("JSON export failed: %w", err)
		}
		fmt.Println(string(output))
	} else {
		data, err := buildReportData(ctx, project)
		if err != nil {
			return err
		}
		path, err := report.Write(project.root, data)
		if err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", path)
	}

	if len(violations) > 0 {
		for _, violation := range violations {
			fmt.Printf("violation: %s\n", violation)
		}
		return fmt.Errorf("%d contract violation(s)", len(violations))
	}

	return nil
}

func init() {
	deployCmd.Flags().BoolVar(&deployJSON, "json", false, "export the pipeline result as JSON")
	rootCmd.AddCommand(deployCmd)
}
