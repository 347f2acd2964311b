package analytics

import (
	"testing"

	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

func TestBuildDashboard(t *testing.T) {
	projects := []planning.Project{
		{ID: "p1", Name: "Spring gala", Status: planning.ProjectActive},
		{ID: "p2", Name: "Phone drive", Status: planning.ProjectPlanning},
		{ID: "p3", Name: "Old campaign", Status: planning.ProjectCompleted},
		{ID: "p4", Name: "Removed", Status: planning.ProjectActive, IsDeleted: true},
	}
	tasks := []planning.Task{
		{ID: "a", ProjectID: "p1", Status: planning.StatusDone, Priority: planning.PriorityHigh, Progress: 100, PlannedEndDate: "2024-06-05", ActualEndDate: "2024-06-04", Assignees: []string{"u1"}},
		{ID: "b", ProjectID: "p1", Status: planning.StatusInProgress, Priority: planning.PriorityUrgent, Progress: 50, PlannedEndDate: "2024-06-08", Assignees: []string{"u1"}, HasIssue: true},
		{ID: "c", ProjectID: "p2", Status: planning.StatusNotStarted, Priority: planning.PriorityLow, PlannedStartDate: "2024-07-01", PlannedEndDate: "2024-07-10"},
		{ID: "d", ProjectID: "p3", Status: planning.StatusInProgress, PlannedEndDate: "2024-01-01", Assignees: []string{"u2"}},
		{ID: "e", ProjectID: "p4", Status: planning.StatusBlocked, PlannedEndDate: "2024-01-01", Assignees: []string{"u2"}},
	}
	people := []Person{{ID: "u1", Name: "Dana"}, {ID: "u2", Name: "Yossi"}}

	d := BuildDashboard(projects, tasks, people, today)

	if d.ActiveProjects != 2 || d.CompletedProjects != 1 {
		t.Errorf("projects active/completed = %d/%d, want 2/1", d.ActiveProjects, d.CompletedProjects)
	}
	if d.TotalTasks != 3 {
		t.Errorf("TotalTasks = %d, want 3 (active projects only)", d.TotalTasks)
	}
	if d.CompletionRate != 33 || d.OnTimeRate != 100 || d.LateTasks != 1 {
		t.Errorf("rates = %d/%d/late %d, want 33/100/1", d.CompletionRate, d.OnTimeRate, d.LateTasks)
	}
	if d.HighPriorityTasks != 2 || d.TasksWithIssues != 1 {
		t.Errorf("high/issues = %d/%d, want 2/1", d.HighPriorityTasks, d.TasksWithIssues)
	}
	if d.CompletedTasks != 1 || d.InProgressTasks != 1 || d.BlockedTasks != 0 {
		t.Errorf("status counts = %+v", d.ByStatus)
	}
	if len(d.Projects) != 2 || d.Projects[0].ProjectID != "p1" || d.Projects[0].Progress != 75 {
		t.Errorf("Projects = %+v, want p1 first at 75%%", d.Projects)
	}
	if d.Projects[0].Late != 1 || d.Projects[0].Completed != 1 || d.Projects[0].Total != 2 {
		t.Errorf("p1 summary = %+v", d.Projects[0])
	}
	if len(d.Workload) != 1 || d.Workload[0].Name != "Dana" || d.Workload[0].Active != 1 || d.Workload[0].Overdue != 1 {
		t.Errorf("Workload = %+v, want only Dana with 1 active/1 overdue", d.Workload)
	}
	if d.AsOf != "2024-06-10" {
		t.Errorf("AsOf = %s", d.AsOf)
	}
}

func TestBuildTimeline(t *testing.T) {
	tasks := []planning.Task{
		{ActualStartDate: "2024-06-01", ActualEndDate: "2024-06-10"},
		{ActualStartDate: "2024-06-10"},
		{ActualStartDate: "2024-04-01", ActualEndDate: "2024-04-02"},
		{ActualStartDate: "garbage"},
	}
	points := BuildTimeline(tasks, today, 10)
	if len(points) != 10 {
		t.Fatalf("len = %d, want 10", len(points))
	}
	if points[0].Date != "2024-06-01" || points[9].Date != "2024-06-10" {
		t.Errorf("range = %s..%s, want 2024-06-01..2024-06-10", points[0].Date, points[9].Date)
	}
	if points[0].Started != 1 || points[0].Completed != 0 {
		t.Errorf("first point = %+v", points[0])
	}
	if points[9].Started != 1 || points[9].Completed != 1 {
		t.Errorf("last point = %+v", points[9])
	}
	if got := BuildTimeline(nil, today, 0); len(got) != DefaultTimelineDays {
		t.Errorf("default window = %d, want %d", len(got), DefaultTimelineDays)
	}
}
