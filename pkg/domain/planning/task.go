package planning

import "strconv"

// Task is a unit of trackable work inside a project. Dates are stored as
// ISO calendar-date strings and parsed only where they are compared.
type Task struct {
	ID                 string         `json:"id" yaml:"id"`
	ProjectID          string         `json:"projectId" yaml:"projectId"`
	OrganizationID     string         `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	ParentID           string         `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	ItemType           ItemType       `json:"itemType" yaml:"itemType"`
	Name               string         `json:"name" yaml:"name"`
	Description        string         `json:"description,omitempty" yaml:"description,omitempty"`
	Role               string         `json:"role,omitempty" yaml:"role,omitempty"`
	Category           Category       `json:"category,omitempty" yaml:"category,omitempty"`
	Assignees          []string       `json:"assignees" yaml:"assignees"`
	PerformerContactID string         `json:"performerContactId,omitempty" yaml:"performerContactId,omitempty"`
	Priority           TaskPriority   `json:"priority" yaml:"priority"`
	Status             TaskStatus     `json:"status" yaml:"status"`
	Progress           int            `json:"progress" yaml:"progress"`
	SchedulingMode     SchedulingMode `json:"schedulingMode,omitempty" yaml:"schedulingMode,omitempty"`
	ParentTaskID       string         `json:"parentTaskId,omitempty" yaml:"parentTaskId,omitempty"`
	DependsOnTaskID    string         `json:"dependsOnTaskId,omitempty" yaml:"dependsOnTaskId,omitempty"`
	WorkDays           int            `json:"workDays,omitempty" yaml:"workDays,omitempty"`
	PlannedStartDate   string         `json:"plannedStartDate" yaml:"plannedStartDate"`
	PlannedEndDate     string         `json:"plannedEndDate" yaml:"plannedEndDate"`
	ActualStartDate    string         `json:"actualStartDate,omitempty" yaml:"actualStartDate,omitempty"`
	ActualEndDate      string         `json:"actualEndDate,omitempty" yaml:"actualEndDate,omitempty"`
	Notes              string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	HasIssue           bool           `json:"hasIssue" yaml:"hasIssue"`
	IssueDetail        string         `json:"issueDetail,omitempty" yaml:"issueDetail,omitempty"`
}

// NewTask returns a task with the defaults used for newly created work:
// NotStarted, 0%, medium priority, a fixed one-work-day schedule.
func NewTask(projectID, name string) Task {
	return Task{
		ProjectID:      projectID,
		Name:           name,
		ItemType:       ItemTask,
		Category:       CategoryOperations,
		Assignees:      []string{},
		Priority:       PriorityMedium,
		Status:         StatusNotStarted,
		Progress:       0,
		SchedulingMode: ScheduleFixed,
		WorkDays:       1,
	}
}

// WithDefaults fills the zero-valued fields of t with the NewTask
// defaults. WorkDays stays zero when a planned end date is set so that it
// can be derived from the dates.
func WithDefaults(t Task) Task {
	def := NewTask(t.ProjectID, t.Name)
	if t.ItemType == "" {
		t.ItemType = def.ItemType
	}
	if t.Category == "" {
		t.Category = def.Category
	}
	if t.Assignees == nil {
		t.Assignees = def.Assignees
	}
	if t.Priority == "" {
		t.Priority = def.Priority
	}
	if t.Status == "" {
		t.Status = def.Status
	}
	if t.SchedulingMode == "" {
		t.SchedulingMode = def.SchedulingMode
	}
	if t.WorkDays == 0 && t.PlannedEndDate == "" {
		t.WorkDays = def.WorkDays
	}
	return t
}

// IsAssignedTo reports whether userID is among the task's assignees.
func (t Task) IsAssignedTo(userID string) bool {
	for _, a := range t.Assignees {
		if a == userID {
			return true
		}
	}
	return false
}

// Validate checks the fields a task must carry before it is stored.
func (t Task) Validate() error {
	if t.ProjectID == "" {
		return &ValidationError{Field: "projectId", Reason: "required"}
	}
	if t.Status != "" && !t.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(t.Status)}
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		return &ValidationError{Field: "priority", Reason: "unknown priority " + string(t.Priority)}
	}
	if t.ItemType == ItemSubTask && t.ParentTaskID == "" {
		return &ValidationError{Field: "parentTaskId", Reason: "required for subtasks"}
	}
	return validateProgress(t.Progress)
}

func validateProgress(p int) error {
	if p < 0 || p > 100 {
		return &ValidationError{Field: "progress", Reason: "must be between 0 and 100, got " + strconv.Itoa(p)}
	}
	return nil
}
