package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
)

var workdaysCmd = &cobra.Command{
	Use:   "workdays",
	Short: "Work-week calculations (Sunday to Thursday)",
}

func parseDateArg(s string) error {
	if _, ok := calendar.ParseDate(s); !ok {
		return &CLIError{Message: "invalid date " + s, Hint: "Use YYYY-MM-DD", ExitCode: ExitUsage}
	}
	return nil
}

var workdaysCountCmd = &cobra.Command{
	Use:   "count <start> <end>",
	Short: "Count the work days between two dates, inclusive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			if err := parseDateArg(a); err != nil {
				return err
			}
		}
		n := calendar.CountWorkDays(args[0], args[1])
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int{"workDays": n})
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var workdaysAddCmd = &cobra.Command{
	Use:   "add <start> <days>",
	Short: "Date of the last day of a span of work days starting at start",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := parseDateArg(args[0]); err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return &CLIError{Message: "days must be a number", ExitCode: ExitUsage}
		}
		end := calendar.AddWorkDays(args[0], n)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{"date": end})
		}
		fmt.Fprintln(cmd.OutOrStdout(), end)
		return nil
	},
}

var workdaysCheckCmd = &cobra.Command{
	Use:   "check <date>",
	Short: "Tell whether a date is a work day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, ok := calendar.ParseDate(args[0])
		if !ok {
			return parseDateArg(args[0])
		}
		work := calendar.IsWorkDay(d)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"date": args[0], "workDay": work})
		}
		if work {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is a work day\n", calendar.FormatDate(args[0]), d.Weekday())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is not a work day\n", calendar.FormatDate(args[0]), d.Weekday())
		}
		return nil
	},
}

func init() {
	workdaysCmd.AddCommand(workdaysCountCmd, workdaysAddCmd, workdaysCheckCmd)
	RootCmd.AddCommand(workdaysCmd)
}
