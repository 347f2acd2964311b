package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage individual tasks",
}

var listOpts struct {
	view     string
	projects []string
	status   string
	priority string
	from     string
	to       string
	sortBy   string
	desc     bool
	search   string
}

func buildQuery() (planning.Query, error) {
	view, ok := planning.ParseView(listOpts.view)
	if !ok {
		return planning.Query{}, &CLIError{Message: "unknown view " + listOpts.view, Hint: "Use all, active, overdue, with_issues or completed", ExitCode: ExitUsage}
	}
	q := planning.Query{
		View:       view,
		ProjectIDs: listOpts.projects,
		EndFrom:    listOpts.from,
		EndTo:      listOpts.to,
		SortBy:     planning.SortKey(listOpts.sortBy),
		Descending: listOpts.desc,
		Search:     listOpts.search,
	}
	if listOpts.status != "" {
		st, err := planning.ParseTaskStatus(listOpts.status)
		if err != nil {
			return q, &CLIError{Message: err.Error(), ExitCode: ExitUsage}
		}
		q.Status = st
	}
	if listOpts.priority != "" {
		pr, err := planning.ParseTaskPriority(listOpts.priority)
		if err != nil {
			return q, &CLIError{Message: err.Error(), ExitCode: ExitUsage}
		}
		q.Priority = pr
	}
	return q, nil
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with lateness flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := buildQuery()
		if err != nil {
			return err
		}
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		views, err := svc.Stats.Query(ctx, q)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), views)
		}
		printTaskViews(cmd.OutOrStdout(), views)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		t, err := svc.Task.Task(args[0])
		if err != nil {
			return MapError(err)
		}
		if u, ok := access.UserFrom(ctx); ok && !access.CanView(u, t.ProjectID) {
			return MapError(fmt.Errorf("%w: %s", planning.ErrTaskNotFound, args[0]))
		}
		view := application.BuildViews([]planning.Task{t}, svc.Clock.Today())[0]
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), view)
		}
		printTask(cmd.OutOrStdout(), view)
		return nil
	},
}

var createOpts struct {
	project   string
	name      string
	start     string
	end       string
	workDays  int
	dependsOn string
	assignees []string
	priority  string
	category  string
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := planning.NewTask(createOpts.project, createOpts.name)
		t.PlannedStartDate = createOpts.start
		t.PlannedEndDate = createOpts.end
		t.WorkDays = createOpts.workDays
		t.DependsOnTaskID = createOpts.dependsOn
		t.Assignees = append(t.Assignees, createOpts.assignees...)
		if createOpts.priority != "" {
			pr, err := planning.ParseTaskPriority(createOpts.priority)
			if err != nil {
				return &CLIError{Message: err.Error(), ExitCode: ExitUsage}
			}
			t.Priority = pr
		}
		if createOpts.category != "" {
			t.Category = planning.Category(createOpts.category)
		}
		if createOpts.end != "" && !cmd.Flags().Changed("workdays") {
			t.WorkDays = 0
		}

		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		created, err := svc.Task.Create(ctx, t)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), created)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s .. %s)\n", created.ID, dash(created.PlannedStartDate), dash(created.PlannedEndDate))
		return nil
	},
}

// runUpdate loads services, applies update to the task and prints the
// outcome.
func runUpdate(cmd *cobra.Command, update func(context.Context, *application.TaskService) (application.UpdateOutcome, error)) error {
	svc, ctx, err := loadServices(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	out, err := update(ctx, svc.Task)
	if err != nil {
		return MapError(err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), out)
	}
	printOutcome(cmd.OutOrStdout(), out)
	return nil
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <task-id> <status>",
	Short: "Change a task's status",
	Long: `Change a task's status. Starting a task stamps its actual start date,
finishing it stamps the actual end date and sets progress to 100.
Finishing a task starts the tasks of the same project that wait on it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := planning.ParseTaskStatus(args[1])
		if err != nil {
			return &CLIError{Message: err.Error(), Hint: "Use not_started, in_progress, blocked, done or cancelled", ExitCode: ExitUsage}
		}
		return runUpdate(cmd, func(ctx context.Context, s *application.TaskService) (application.UpdateOutcome, error) {
			return s.ChangeStatus(ctx, args[0], status)
		})
	},
}

var taskProgressCmd = &cobra.Command{
	Use:   "progress <task-id> <percent>",
	Short: "Set a task's progress",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
		if err != nil {
			return &CLIError{Message: "progress must be a number", ExitCode: ExitUsage}
		}
		return runUpdate(cmd, func(ctx context.Context, s *application.TaskService) (application.UpdateOutcome, error) {
			return s.SetProgress(ctx, args[0], n)
		})
	},
}

var clearDependency bool

var taskDependCmd = &cobra.Command{
	Use:   "depend <task-id> [prerequisite-id]",
	Short: "Make a task wait on another task of the same project",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prereq := ""
		switch {
		case len(args) == 2:
			prereq = args[1]
		case !clearDependency:
			return &CLIError{Message: "missing prerequisite task id", Hint: "Pass --clear to remove the dependency", ExitCode: ExitUsage}
		}
		return runUpdate(cmd, func(ctx context.Context, s *application.TaskService) (application.UpdateOutcome, error) {
			return s.SetDependency(ctx, args[0], prereq)
		})
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.Task.Delete(ctx, args[0]); err != nil {
			return MapError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

var taskPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List tasks changed locally but not saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ids := svc.Task.PendingSync()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), ids)
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "all changes saved")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var taskRetryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Resend tasks whose last change was not saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		results := svc.Task.Retry(ctx)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), results)
		}
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to retry")
		}
		for _, r := range results {
			printSync(cmd.OutOrStdout(), "retried", r)
		}
		return nil
	},
}

func init() {
	f := taskListCmd.Flags()
	f.StringVar(&listOpts.view, "view", "all", "all, active, overdue, with_issues or completed")
	f.StringSliceVar(&listOpts.projects, "project-id", nil, "Only tasks of these projects")
	f.StringVar(&listOpts.status, "status", "", "Only tasks with this status")
	f.StringVar(&listOpts.priority, "priority", "", "Only tasks with this priority")
	f.StringVar(&listOpts.from, "from", "", "Planned end on or after this date")
	f.StringVar(&listOpts.to, "to", "", "Planned end on or before this date")
	f.StringVar(&listOpts.sortBy, "sort", "", "planned_end, planned_start or project")
	f.BoolVar(&listOpts.desc, "desc", false, "Sort descending")
	f.StringVar(&listOpts.search, "search", "", "Match task names")

	f = taskCreateCmd.Flags()
	f.StringVar(&createOpts.project, "project-id", "", "Project id (required)")
	f.StringVar(&createOpts.name, "name", "", "Task name (required)")
	f.StringVar(&createOpts.start, "start", "", "Planned start date (required)")
	f.StringVar(&createOpts.end, "end", "", "Planned end date (derived from --workdays when omitted)")
	f.IntVar(&createOpts.workDays, "workdays", 1, "Planned work days")
	f.StringVar(&createOpts.dependsOn, "depends-on", "", "Prerequisite task id")
	f.StringSliceVar(&createOpts.assignees, "assignee", nil, "Assigned user ids")
	f.StringVar(&createOpts.priority, "priority", "", "low, medium, high or urgent")
	f.StringVar(&createOpts.category, "category", "", "Task category")
	_ = taskCreateCmd.MarkFlagRequired("project-id")
	_ = taskCreateCmd.MarkFlagRequired("name")

	taskDependCmd.Flags().BoolVar(&clearDependency, "clear", false, "Remove the dependency")

	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskCreateCmd, taskStatusCmd, taskProgressCmd,
		taskDependCmd, taskDeleteCmd, taskPendingCmd, taskRetryCmd)
	RootCmd.AddCommand(taskCmd)
}
