package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/raven"
	"github.com/simonhull/firebird-suite/raven/internal/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the raven CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "raven",
		Short: "Raven - architectural structure reconstruction",
		Long: `Raven reads type facts extracted from a codebase and reconstructs its
architecture: relationships between types, inheritance hierarchies,
design-pattern candidates and coupling/cohesion metrics.`,
		Version:       raven.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed analysis information")

	cmd.AddCommand(versionCmd())
	cmd.AddCommand(AnalyzeCmd())
	cmd.AddCommand(ValidateCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	if err := RootCmd().Execute(); err != nil {
		output.Error(err.Error())
		return err
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Raven v%s\n", raven.Version)
		},
	}
}
