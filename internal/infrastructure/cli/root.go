package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Global flags.
var (
	projectPath string
	jsonOutput  bool
	verbose     bool
	todayFlag   string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "nihulit",
	Version: Version,
	Short:   "Task scheduling and status tracking for fundraising campaigns",
	Long: `Nihulit tracks the tasks of fundraising projects on a Sunday to
Thursday work week. It derives start and finish dates from status changes,
starts dependent tasks when their prerequisite is done, and reports which
work is late.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&projectPath, "project", "C", "", "Workspace directory (default: current directory)")
	RootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVar(&todayFlag, "today", "", "Evaluate lateness as of this date (YYYY-MM-DD)")
}

// Execute runs the command tree and prints a failure with its hint.
// It returns the process exit code.
func Execute(ctx context.Context) int {
	err := RootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	err = MapError(err)
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cliErr.Error())
		if cliErr.Hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
		}
		return cliErr.ExitCode
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
