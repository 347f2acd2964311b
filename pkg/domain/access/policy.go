package access

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// ErrForbidden indicates the acting user lacks permission.
var ErrForbidden = errors.New("forbidden")

// PermissionError names the denied action.
type PermissionError struct {
	UserID string
	Action string
	Target string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s may not %s %s", e.UserID, e.Action, e.Target)
}

// Is allows errors.Is to work with PermissionError.
func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// Kind identifies the type of a record for deletion checks.
type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindPayment Kind = "payment"
	KindMeeting Kind = "meeting"
	KindContact Kind = "contact"
	KindUser    Kind = "user"
)

// Record is the part of any record the policy looks at.
type Record struct {
	Kind      Kind
	ID        string
	ProjectID string
}

// TaskRecord describes a task for CanDelete.
func TaskRecord(t planning.Task) Record {
	return Record{Kind: KindTask, ID: t.ID, ProjectID: t.ProjectID}
}

// CanView reports whether u can see projectID. Admins see every project.
func CanView(u User, projectID string) bool {
	if !u.Active {
		return false
	}
	return u.Role.IsAdmin() || u.HasProject(projectID)
}

// VisibleProjects returns the non-deleted projects u can see.
func VisibleProjects(u User, projects []planning.Project) []planning.Project {
	out := make([]planning.Project, 0, len(projects))
	for _, p := range projects {
		if !p.IsDeleted && CanView(u, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// VisibleTasks returns the tasks of projects u can see.
func VisibleTasks(u User, tasks []planning.Task) []planning.Task {
	out := make([]planning.Task, 0, len(tasks))
	for _, t := range tasks {
		if CanView(u, t.ProjectID) {
			out = append(out, t)
		}
	}
	return out
}

// CanEdit decides whether u may change task. Admins may edit any task they
// can see; workers only tasks assigned to them; viewers nothing.
func CanEdit(u User, task planning.Task) bool {
	if !CanView(u, task.ProjectID) {
		return false
	}
	switch u.Role {
	case RoleSysAdmin, RolePMAdmin:
		return true
	case RoleWorker:
		return task.IsAssignedTo(u.ID)
	}
	return false
}

// CanDelete decides whether u may delete rec. A sys_admin may delete
// anything but their own account. A pm_admin may delete project-scoped
// records (tasks, payments, meetings, contacts) on projects they can see.
func CanDelete(u User, rec Record) bool {
	if !u.Active {
		return false
	}
	switch u.Role {
	case RoleSysAdmin:
		return !(rec.Kind == KindUser && rec.ID == u.ID)
	case RolePMAdmin:
		switch rec.Kind {
		case KindTask, KindPayment:
			return CanView(u, rec.ProjectID)
		case KindMeeting, KindContact:
			return rec.ProjectID == "" || CanView(u, rec.ProjectID)
		}
	}
	return false
}

// CheckGrant verifies that granter may give access to projectIDs. A
// pm_admin can only grant projects they can access themselves.
func CheckGrant(granter User, projectIDs []string) error {
	if !granter.Active || !granter.Role.CanManageUsers() {
		return &PermissionError{UserID: granter.ID, Action: "grant", Target: "projects"}
	}
	if granter.Role == RoleSysAdmin {
		return nil
	}
	for _, id := range projectIDs {
		if !granter.HasProject(id) {
			return &PermissionError{UserID: granter.ID, Action: "grant", Target: "project " + id}
		}
	}
	return nil
}

// RequireEdit returns a PermissionError unless u may edit task.
func RequireEdit(u User, task planning.Task) error {
	if CanEdit(u, task) {
		return nil
	}
	return &PermissionError{UserID: u.ID, Action: "edit", Target: "task " + task.ID}
}

// RequireDelete returns a PermissionError unless u may delete rec.
func RequireDelete(u User, rec Record) error {
	if CanDelete(u, rec) {
		return nil
	}
	return &PermissionError{UserID: u.ID, Action: "delete", Target: string(rec.Kind) + " " + rec.ID}
}
