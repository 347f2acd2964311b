package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

var (
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWIP     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleLate    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleHeading = lipgloss.NewStyle().Bold(true)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func styleStatus(s planning.TaskStatus) string {
	switch s {
	case planning.StatusDone:
		return styleDone.Render(string(s))
	case planning.StatusInProgress:
		return styleWIP.Render(string(s))
	case planning.StatusBlocked:
		return styleLate.Render(string(s))
	case planning.StatusCancelled:
		return styleMuted.Render(string(s))
	}
	return string(s)
}

// lateMarker names the lateness conditions of a task view.
func lateMarker(v application.TaskView) string {
	var parts []string
	if v.IsLateToStart {
		parts = append(parts, "late-start")
	}
	if v.IsLateToFinish {
		parts = append(parts, "late-finish")
	}
	if len(parts) == 0 {
		return ""
	}
	return styleLate.Render(strings.Join(parts, ","))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printTaskViews(w io.Writer, views []application.TaskView) {
	fmt.Fprintf(w, "%-38s %-12s %-8s %5s %-10s %-10s %s\n", "ID", "STATUS", "PRIORITY", "PROG", "START", "END", "NAME")
	for _, v := range views {
		t := v.Task
		fmt.Fprintf(w, "%-38s %-12s %-8s %4d%% %-10s %-10s %s %s\n",
			t.ID, styleStatus(t.Status), t.Priority, t.Progress,
			dash(t.PlannedStartDate), dash(t.PlannedEndDate), t.Name, lateMarker(v))
	}
	if len(views) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
}

func printTask(w io.Writer, v application.TaskView) {
	t := v.Task
	fmt.Fprintln(w, styleHeading.Render(t.Name))
	fmt.Fprintf(w, "  id:          %s\n", t.ID)
	fmt.Fprintf(w, "  project:     %s\n", t.ProjectID)
	fmt.Fprintf(w, "  status:      %s (%s)\n", styleStatus(t.Status), t.Status.DisplayName())
	fmt.Fprintf(w, "  priority:    %s\n", t.Priority)
	fmt.Fprintf(w, "  progress:    %d%%\n", t.Progress)
	fmt.Fprintf(w, "  planned:     %s .. %s (%d work days)\n", dash(t.PlannedStartDate), dash(t.PlannedEndDate), t.WorkDays)
	fmt.Fprintf(w, "  actual:      %s .. %s\n", dash(t.ActualStartDate), dash(t.ActualEndDate))
	if t.DependsOnTaskID != "" {
		fmt.Fprintf(w, "  depends on:  %s\n", t.DependsOnTaskID)
	}
	if len(t.Assignees) > 0 {
		fmt.Fprintf(w, "  assignees:   %s\n", strings.Join(t.Assignees, ", "))
	}
	if t.HasIssue {
		fmt.Fprintf(w, "  issue:       %s\n", dash(t.IssueDetail))
	}
	if m := lateMarker(v); m != "" {
		fmt.Fprintf(w, "  lateness:    %s\n", m)
	}
}

// printOutcome reports the primary update and every propagated one.
// Updates that were kept locally but not saved are flagged.
func printOutcome(w io.Writer, out application.UpdateOutcome) {
	printSync(w, "updated", out.Result)
	for _, p := range out.Propagated {
		printSync(w, "started", p)
	}
}

func printSync(w io.Writer, verb string, r application.SyncResult) {
	t := r.Value
	if r.Persisted {
		fmt.Fprintf(w, "%s %s: %s, %d%%\n", verb, t.ID, styleStatus(t.Status), t.Progress)
		return
	}
	fmt.Fprintf(w, "%s %s: %s, %d%% %s\n", verb, t.ID, styleStatus(t.Status), t.Progress,
		styleWarn.Render("(not saved; run 'nihulit task retry')"))
}
