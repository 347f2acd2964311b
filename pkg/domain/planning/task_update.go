package planning

import "sort"

// TaskUpdate is a partial field set. Nil fields are left untouched. The JSON
// names match Task so an encoded update can be merged into a stored task
// document.
type TaskUpdate struct {
	Name               *string       `json:"name,omitempty"`
	Description        *string       `json:"description,omitempty"`
	Category           *Category     `json:"category,omitempty"`
	Assignees          *[]string     `json:"assignees,omitempty"`
	PerformerContactID *string       `json:"performerContactId,omitempty"`
	Priority           *TaskPriority `json:"priority,omitempty"`
	Status             *TaskStatus   `json:"status,omitempty"`
	Progress           *int          `json:"progress,omitempty"`
	DependsOnTaskID    *string       `json:"dependsOnTaskId,omitempty"`
	WorkDays           *int          `json:"workDays,omitempty"`
	PlannedStartDate   *string       `json:"plannedStartDate,omitempty"`
	PlannedEndDate     *string       `json:"plannedEndDate,omitempty"`
	ActualStartDate    *string       `json:"actualStartDate,omitempty"`
	ActualEndDate      *string       `json:"actualEndDate,omitempty"`
	Notes              *string       `json:"notes,omitempty"`
	HasIssue           *bool         `json:"hasIssue,omitempty"`
	IssueDetail        *string       `json:"issueDetail,omitempty"`
}

// StatusUpdate is the common single-field update.
func StatusUpdate(s TaskStatus) TaskUpdate {
	return TaskUpdate{Status: &s}
}

// WithStatus returns a copy of u with Status set.
func (u TaskUpdate) WithStatus(s TaskStatus) TaskUpdate {
	u.Status = &s
	return u
}

// WithProgress returns a copy of u with Progress set.
func (u TaskUpdate) WithProgress(p int) TaskUpdate {
	u.Progress = &p
	return u
}

// WithDependsOn returns a copy of u with DependsOnTaskID set. An empty id
// clears the dependency.
func (u TaskUpdate) WithDependsOn(id string) TaskUpdate {
	u.DependsOnTaskID = &id
	return u
}

// Validate checks the values carried by the update.
func (u TaskUpdate) Validate() error {
	if u.Status != nil && !u.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(*u.Status)}
	}
	if u.Priority != nil && !u.Priority.IsValid() {
		return &ValidationError{Field: "priority", Reason: "unknown priority " + string(*u.Priority)}
	}
	if u.Progress != nil {
		return validateProgress(*u.Progress)
	}
	return nil
}

// CheckEditable rejects updates that set the actual dates. Those are stamped
// by ApplyStatusChange from status changes and never taken from a caller.
func (u TaskUpdate) CheckEditable() error {
	if u.ActualStartDate != nil {
		return &ValidationError{Field: "actualStartDate", Reason: "set only by status changes"}
	}
	if u.ActualEndDate != nil {
		return &ValidationError{Field: "actualEndDate", Reason: "set only by status changes"}
	}
	return nil
}

// Apply returns t with every non-nil field of u written over it.
func (u TaskUpdate) Apply(t Task) Task {
	setString(&t.Name, u.Name)
	setString(&t.Description, u.Description)
	setString(&t.PerformerContactID, u.PerformerContactID)
	setString(&t.DependsOnTaskID, u.DependsOnTaskID)
	setString(&t.PlannedStartDate, u.PlannedStartDate)
	setString(&t.PlannedEndDate, u.PlannedEndDate)
	setString(&t.ActualStartDate, u.ActualStartDate)
	setString(&t.ActualEndDate, u.ActualEndDate)
	setString(&t.Notes, u.Notes)
	setString(&t.IssueDetail, u.IssueDetail)
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Assignees != nil {
		t.Assignees = append([]string(nil), (*u.Assignees)...)
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Progress != nil {
		t.Progress = *u.Progress
	}
	if u.WorkDays != nil {
		t.WorkDays = *u.WorkDays
	}
	if u.HasIssue != nil {
		t.HasIssue = *u.HasIssue
	}
	return t
}

// Fields lists the names of the fields the update sets, sorted.
func (u TaskUpdate) Fields() []string {
	set := map[string]bool{
		"name":               u.Name != nil,
		"description":        u.Description != nil,
		"category":           u.Category != nil,
		"assignees":          u.Assignees != nil,
		"performerContactId": u.PerformerContactID != nil,
		"priority":           u.Priority != nil,
		"status":             u.Status != nil,
		"progress":           u.Progress != nil,
		"dependsOnTaskId":    u.DependsOnTaskID != nil,
		"workDays":           u.WorkDays != nil,
		"plannedStartDate":   u.PlannedStartDate != nil,
		"plannedEndDate":     u.PlannedEndDate != nil,
		"actualStartDate":    u.ActualStartDate != nil,
		"actualEndDate":      u.ActualEndDate != nil,
		"notes":              u.Notes != nil,
		"hasIssue":           u.HasIssue != nil,
		"issueDetail":        u.IssueDetail != nil,
	}
	fields := make([]string, 0, len(set))
	for name, ok := range set {
		if ok {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

// IsEmpty reports whether the update sets no fields.
func (u TaskUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// UpdateFrom returns an update that sets every mutable field of t. It is
// used to resend a task's full local state.
func UpdateFrom(t Task) TaskUpdate {
	assignees := append([]string{}, t.Assignees...)
	return TaskUpdate{
		Name:               &t.Name,
		Description:        &t.Description,
		Category:           &t.Category,
		Assignees:          &assignees,
		PerformerContactID: &t.PerformerContactID,
		Priority:           &t.Priority,
		Status:             &t.Status,
		Progress:           &t.Progress,
		DependsOnTaskID:    &t.DependsOnTaskID,
		WorkDays:           &t.WorkDays,
		PlannedStartDate:   &t.PlannedStartDate,
		PlannedEndDate:     &t.PlannedEndDate,
		ActualStartDate:    &t.ActualStartDate,
		ActualEndDate:      &t.ActualEndDate,
		Notes:              &t.Notes,
		HasIssue:           &t.HasIssue,
		IssueDetail:        &t.IssueDetail,
	}
}
