package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/analytics"
	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard",
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
		views := svc.Task.Views(svc.Clock.Today())
		if os.Getenv("NIHULIT_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(newDashboardModel(d, views), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)
)

type model struct {
	table    table.Model
	stats    analytics.Dashboard
	views    []application.TaskView
	lateOnly bool
	err      error
}

func newDashboardModel(d analytics.Dashboard, views []application.TaskView) model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Status", Width: 12},
			{Title: "Task", Width: 32},
			{Title: "Project", Width: 12},
			{Title: "Progress", Width: 8},
			{Title: "End", Width: 10},
			{Title: "Late", Width: 11},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	m := model{table: t, stats: d, views: views}
	m.table.SetRows(m.rows())
	return m
}

func (m model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.views))
	for _, v := range m.views {
		if m.lateOnly && !v.IsLate {
			continue
		}
		late := ""
		switch {
		case v.IsLateToStart && v.IsLateToFinish:
			late = "start+finish"
		case v.IsLateToStart:
			late = "start"
		case v.IsLateToFinish:
			late = "finish"
		}
		rows = append(rows, table.Row{
			string(v.Task.Status),
			v.Task.Name,
			v.Task.ProjectID,
			fmt.Sprintf("%d%%", v.Task.Progress),
			calendar.FormatDate(v.Task.PlannedEndDate),
			late,
		})
	}
	return rows
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.lateOnly = !m.lateOnly
			m.table.SetRows(m.rows())
			m.table.GotoTop()
			return m, nil
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading dashboard: %v\nPress q to quit.", m.err)
	}
	d := m.stats
	header := headerStyle.Render("Portfolio as of " + calendar.FormatDate(d.AsOf))
	kpis := fmt.Sprintf("Projects %d active  Tasks %d/%d done (%d%%)  On time %d%%",
		d.ActiveProjects, d.CompletedTasks, d.TotalTasks, d.CompletionRate, d.OnTimeRate)
	late := styleDone.Render("No late tasks")
	if d.LateTasks > 0 {
		late = styleLate.Render(fmt.Sprintf("%d late tasks", d.LateTasks))
	}

	var progress []string
	for _, p := range d.Projects {
		progress = append(progress, fmt.Sprintf("%-24s %3d%%", p.Name, p.Progress))
	}

	title := "\nTasks:"
	if m.lateOnly {
		title = "\nLate tasks:"
	}
	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			kpis,
			late,
			strings.Join(progress, "\n"),
			title,
			m.table.View(),
			"\n[q] Quit  [l] Late only  [Up/Down] Navigate",
		),
	) + "\n"
}
