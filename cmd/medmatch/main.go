// Package main provides the medmatch CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medmatch/medmatch/pkg/config"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "medmatch",
		Short: "Rank medicine donations against an NGO request",
		Long: `medmatch flags suspicious medicine donations, scores how well each one
fits an NGO's request and prints the ranked list.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRankCmd(),
		newFraudCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// loadConfig loads an explicit config file, or the nearest
// .medmatch/config.yaml above the working directory. A discovered file that
// fails to load falls back to the defaults with a warning.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	cfgFile := config.FindConfigFile(wd)
	if cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
