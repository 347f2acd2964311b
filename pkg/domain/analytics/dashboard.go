package analytics

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// Person names a user for workload reporting.
type Person struct {
	ID   string
	Name string
}

// ProjectSummary is one row of the project progress table.
type ProjectSummary struct {
	ProjectID string                 `json:"projectId"`
	Name      string                 `json:"name"`
	Status    planning.ProjectStatus `json:"status"`
	Progress  int                    `json:"progress"`
	Completed int                    `json:"completed"`
	Total     int                    `json:"total"`
	Late      int                    `json:"late"`
}

// Dashboard is the portfolio rollup over active projects.
type Dashboard struct {
	AsOf              string                         `json:"asOf"`
	ActiveProjects    int                            `json:"activeProjects"`
	CompletedProjects int                            `json:"completedProjects"`
	TotalTasks        int                            `json:"totalTasks"`
	CompletedTasks    int                            `json:"completedTasks"`
	InProgressTasks   int                            `json:"inProgressTasks"`
	BlockedTasks      int                            `json:"blockedTasks"`
	LateTasks         int                            `json:"lateTaskCount"`
	TasksWithIssues   int                            `json:"tasksWithIssues"`
	HighPriorityTasks int                            `json:"highPriorityTasks"`
	CompletionRate    int                            `json:"completionRate"`
	OnTimeRate        int                            `json:"onTimeRate"`
	ByStatus          map[planning.TaskStatus]int    `json:"byStatus"`
	ByPriority        map[planning.TaskPriority]int  `json:"byPriority"`
	ProjectsByStatus  map[planning.ProjectStatus]int `json:"projectsByStatus"`
	Projects          []ProjectSummary               `json:"projectProgress"`
	Workload          []Workload                     `json:"workloadByAssignee"`
}

// ActiveTasks returns the tasks belonging to active projects.
func ActiveTasks(projects []planning.Project, tasks []planning.Task) []planning.Task {
	active := make(map[string]bool)
	for _, p := range projects {
		if p.IsActive() {
			active[p.ID] = true
		}
	}
	out := make([]planning.Task, 0, len(tasks))
	for _, t := range tasks {
		if active[t.ProjectID] {
			out = append(out, t)
		}
	}
	return out
}

// BuildDashboard computes the portfolio rollup. Rates and late counts cover
// the tasks of active projects; workload lists only people with work.
func BuildDashboard(projects []planning.Project, tasks []planning.Task, people []Person, today time.Time) Dashboard {
	pool := ActiveTasks(projects, tasks)

	d := Dashboard{
		AsOf:             calendar.Format(today),
		TotalTasks:       len(pool),
		CompletionRate:   CompletionRate(pool),
		OnTimeRate:       OnTimeRate(pool),
		LateTasks:        LateTaskCount(pool, today),
		ByStatus:         make(map[planning.TaskStatus]int),
		ByPriority:       make(map[planning.TaskPriority]int),
		ProjectsByStatus: make(map[planning.ProjectStatus]int),
		Projects:         []ProjectSummary{},
		Workload:         []Workload{},
	}

	for _, t := range pool {
		d.ByStatus[t.Status]++
		d.ByPriority[t.Priority]++
		if t.HasIssue {
			d.TasksWithIssues++
		}
		if t.Priority.Order() >= planning.PriorityHigh.Order() {
			d.HighPriorityTasks++
		}
	}
	d.CompletedTasks = d.ByStatus[planning.StatusDone]
	d.InProgressTasks = d.ByStatus[planning.StatusInProgress]
	d.BlockedTasks = d.ByStatus[planning.StatusBlocked]

	for _, p := range projects {
		if p.IsDeleted {
			continue
		}
		if p.Status == planning.ProjectCompleted {
			d.CompletedProjects++
			d.ProjectsByStatus[p.Status]++
			continue
		}
		d.ActiveProjects++
		d.ProjectsByStatus[p.Status]++
		d.Projects = append(d.Projects, summarizeProject(p, tasks, today))
	}
	sort.SliceStable(d.Projects, func(i, j int) bool {
		return d.Projects[i].Progress > d.Projects[j].Progress
	})

	ids := make([]string, len(people))
	names := make(map[string]string, len(people))
	for i, p := range people {
		ids[i] = p.ID
		names[p.ID] = p.Name
	}
	for _, w := range WorkloadByAssignee(ids, pool, today) {
		if w.IsZero() {
			continue
		}
		w.Name = names[w.UserID]
		d.Workload = append(d.Workload, w)
	}
	return d
}

func summarizeProject(p planning.Project, tasks []planning.Task, today time.Time) ProjectSummary {
	s := ProjectSummary{
		ProjectID: p.ID,
		Name:      p.Name,
		Status:    p.Status,
		Progress:  RoundHalfUp(ProjectProgress(tasks, p.ID)),
	}
	for _, t := range tasks {
		if t.ProjectID != p.ID {
			continue
		}
		s.Total++
		if t.Status == planning.StatusDone {
			s.Completed++
		}
		if planning.IsLate(t, today) {
			s.Late++
		}
	}
	return s
}
