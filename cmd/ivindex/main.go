// Package main provides the entry point for the ivindex CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ivindex/cmd/ivindex/commands"
	"github.com/Sumatoshi-tech/ivindex/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	globals := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "ivindex",
		Short: "ivindex - augmented interval index toolkit",
		Long: `ivindex runs scripted workloads against an in-memory interval index.

Commands:
  run       Execute an operation script and print the results
  validate  Check an operation script against the script schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "config file (default: ./ivindex.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globals.Quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewRunCommand(globals))
	rootCmd.AddCommand(commands.NewValidateCommand(globals))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// versionCmd prints build metadata.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
