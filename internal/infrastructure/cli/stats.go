package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/pkg/domain/analytics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the portfolio dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		d, err := svc.Stats.Dashboard(ctx)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), d)
		}
		printDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

func printDashboard(w io.Writer, d analytics.Dashboard) {
	fmt.Fprintln(w, styleHeading.Render("Dashboard as of "+d.AsOf))
	fmt.Fprintf(w, "  active projects:  %d (completed %d)\n", d.ActiveProjects, d.CompletedProjects)
	fmt.Fprintf(w, "  tasks:            %d total, %d done, %d in progress, %d blocked\n",
		d.TotalTasks, d.CompletedTasks, d.InProgressTasks, d.BlockedTasks)
	fmt.Fprintf(w, "  completion rate:  %d%%\n", d.CompletionRate)
	fmt.Fprintf(w, "  on-time rate:     %d%%\n", d.OnTimeRate)
	late := fmt.Sprintf("%d", d.LateTasks)
	if d.LateTasks > 0 {
		late = styleLate.Render(late)
	}
	fmt.Fprintf(w, "  late tasks:       %s\n", late)
	fmt.Fprintf(w, "  with issues:      %d\n", d.TasksWithIssues)

	if len(d.Projects) > 0 {
		fmt.Fprintln(w, styleHeading.Render("\nProjects"))
		for _, p := range d.Projects {
			fmt.Fprintf(w, "  %-30s %3d%%  %d/%d  late %d\n", p.Name, p.Progress, p.Completed, p.Total, p.Late)
		}
	}
	if len(d.Workload) > 0 {
		fmt.Fprintln(w, styleHeading.Render("\nWorkload"))
		for _, wl := range d.Workload {
			name := wl.Name
			if name == "" {
				name = wl.UserID
			}
			fmt.Fprintf(w, "  %-20s active %d  done %d  overdue %d\n", name, wl.Active, wl.Completed, wl.Overdue)
		}
	}
}

var timelineDays int

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show tasks started and completed per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if timelineDays <= 0 {
			return &CLIError{Message: "--days must be positive", ExitCode: ExitUsage}
		}
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		points, err := svc.Stats.Timeline(ctx, timelineDays)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), points)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-10s %-20s %s\n", "DATE", "STARTED", "COMPLETED")
		for _, p := range points {
			fmt.Fprintf(w, "%-10s %-20s %s\n", p.Date, bar(p.Started), styleDone.Render(bar(p.Completed)))
		}
		return nil
	},
}

func bar(n int) string {
	if n == 0 {
		return "."
	}
	return strings.Repeat("#", n) + fmt.Sprintf(" %d", n)
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Payment reports",
}

var paymentsSummaryCmd = &cobra.Command{
	Use:   "summary [project-id]",
	Short: "Show income, expense and balance",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		w := cmd.OutOrStdout()

		if len(args) == 1 {
			pf, err := svc.Finance.Project(ctx, args[0])
			if err != nil {
				return MapError(err)
			}
			if jsonOutput {
				return printJSON(w, pf)
			}
			fmt.Fprintf(w, "project %s\n", pf.ProjectID)
			fmt.Fprintf(w, "  income %.2f  expense %.2f  balance %.2f  planned out %.2f\n",
				pf.Totals.Income, pf.Totals.Expense, pf.Totals.Balance, pf.Totals.PlannedOut)
			fmt.Fprintf(w, "  goal %.2f (%.0f%%)  budget %.2f (variance %.2f)\n",
				pf.FinancialGoal, pf.GoalPercent, pf.PlannedBudget, pf.BudgetVariance)
			return nil
		}

		sum, err := svc.Finance.Summary(ctx)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return printJSON(w, sum)
		}
		fmt.Fprintf(w, "%-20s %12s %12s %12s %12s\n", "PROJECT", "INCOME", "EXPENSE", "BALANCE", "PLANNED OUT")
		ids := make([]string, 0, len(sum.ByProject))
		for id := range sum.ByProject {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			t := sum.ByProject[id]
			fmt.Fprintf(w, "%-20s %12.2f %12.2f %12.2f %12.2f\n", id, t.Income, t.Expense, t.Balance, t.PlannedOut)
		}
		t := sum.Totals
		fmt.Fprintf(w, "%-20s %12.2f %12.2f %12.2f %12.2f\n", styleHeading.Render("TOTAL"), t.Income, t.Expense, t.Balance, t.PlannedOut)
		return nil
	},
}

func init() {
	timelineCmd.Flags().IntVar(&timelineDays, "days", 14, "Number of days ending today")
	paymentsCmd.AddCommand(paymentsSummaryCmd)
	RootCmd.AddCommand(statsCmd, timelineCmd, paymentsCmd)
}
