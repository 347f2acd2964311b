package application

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/analytics"
	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// TaskSource supplies the current task list.
type TaskSource interface {
	Tasks() []planning.Task
}

// StatsService derives dashboards, timelines and task views from the
// current data on every call.
type StatsService struct {
	tasks    TaskSource
	projects planning.ProjectStore
	users    access.UserStore
	clock    calendar.Clock
}

func NewStatsService(tasks TaskSource, projects planning.ProjectStore, users access.UserStore, clock calendar.Clock) *StatsService {
	return &StatsService{tasks: tasks, projects: projects, users: users, clock: clock}
}

// scope returns the projects and tasks visible to the acting user, or
// everything when no user is attached to ctx.
func (s *StatsService) scope(ctx context.Context) ([]planning.Project, []planning.Task, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list projects: %w", err)
	}
	tasks := s.tasks.Tasks()
	if u, ok := access.UserFrom(ctx); ok {
		return access.VisibleProjects(u, projects), access.VisibleTasks(u, tasks), nil
	}
	return projects, tasks, nil
}

// Dashboard computes the portfolio rollup as of today.
func (s *StatsService) Dashboard(ctx context.Context) (analytics.Dashboard, error) {
	projects, tasks, err := s.scope(ctx)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	var people []analytics.Person
	if s.users != nil {
		users, err := s.users.List(ctx)
		if err != nil {
			return analytics.Dashboard{}, fmt.Errorf("list users: %w", err)
		}
		for _, u := range users {
			people = append(people, analytics.Person{ID: u.ID, Name: u.Name})
		}
	}
	return analytics.BuildDashboard(projects, tasks, people, s.clock.Today()), nil
}

// Timeline returns the completion and start counts for the last days.
func (s *StatsService) Timeline(ctx context.Context, days int) ([]analytics.TimelinePoint, error) {
	_, tasks, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.BuildTimeline(tasks, s.clock.Today(), days), nil
}

// Query filters and sorts the visible tasks and classifies them as of today.
func (s *StatsService) Query(ctx context.Context, q planning.Query) ([]TaskView, error) {
	projects, tasks, err := s.scope(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	today := s.clock.Today()
	return BuildViews(q.Apply(tasks, today, names), today), nil
}
