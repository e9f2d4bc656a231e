// Package cli wires the zarpar commands: preflight checks, bundle
// computation and report generation for the JurisIA deploy.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "zarpar",
	Short: "Preflight, bundle and report tooling for the JurisIA deploy",
	Long: `Zarpar replaces the deploy shell script with a checked pipeline:
1. Discover - find the frontend and backend from their deployment configs
2. Check    - verify the backend container against the deploy contract
3. Bundle   - apply the publish ignore rules and compute the build size
4. Report   - write deployment-report.txt with the deploy summary`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zarpar.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".zarpar")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// sourceArg resolves the optional [source-path] argument, defaulting to the
// current directory. A file path resolves to its parent directory.
func sourceArg(args []string) string {
	sourcePath := "."
	if len(args) > 0 {
		sourcePath = args[0]

		// If given a file path, use the parent directory
		if stat, err := os.Stat(sourcePath); err == nil && !stat.IsDir() {
			sourcePath = filepath.Dir(sourcePath)
		}
	}
	return sourcePath
}
