package planning

import (
	"fmt"
	"strings"
)

// ProjectStatus is the lifecycle state of a project (fundraising campaign).
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

var legacyProjectStatusLabels = map[string]ProjectStatus{
	"בתכנון": ProjectPlanning,
	"פעיל":   ProjectActive,
	"בהשהיה": ProjectOnHold,
	"הושלם":  ProjectCompleted,
	"בוטל":   ProjectCancelled,
}

// IsValid reports whether the project status is known.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// ParseProjectStatus parses a project status, accepting legacy labels.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	if status, ok := legacyProjectStatusLabels[strings.TrimSpace(s)]; ok {
		return status, nil
	}
	status := ProjectStatus(normalizeName(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid project status: %s", s)
	}
	return status, nil
}

// Project owns a set of tasks and is the unit of aggregation.
type Project struct {
	ID                  string        `json:"id" yaml:"id"`
	OrganizationID      string        `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	Name                string        `json:"name" yaml:"name"`
	ManagerID           string        `json:"managerId,omitempty" yaml:"managerId,omitempty"`
	Type                string        `json:"type,omitempty" yaml:"type,omitempty"`
	Status              ProjectStatus `json:"status" yaml:"status"`
	PlannedStartDate    string        `json:"plannedStartDate,omitempty" yaml:"plannedStartDate,omitempty"`
	PlannedEndDate      string        `json:"plannedEndDate,omitempty" yaml:"plannedEndDate,omitempty"`
	ActualStartDate     string        `json:"actualStartDate,omitempty" yaml:"actualStartDate,omitempty"`
	ActualEndDate       string        `json:"actualEndDate,omitempty" yaml:"actualEndDate,omitempty"`
	FinancialGoal       float64       `json:"financialGoal" yaml:"financialGoal"`
	ProjectTotalCost    float64       `json:"projectTotalCost" yaml:"projectTotalCost"`
	ProjectPaidAmount   float64       `json:"projectPaidAmount" yaml:"projectPaidAmount"`
	PlannedBudget       float64       `json:"plannedBudget" yaml:"plannedBudget"`
	ActualBudget        float64       `json:"actualBudget" yaml:"actualBudget"`
	ProjectPaymentNotes string        `json:"projectPaymentNotes,omitempty" yaml:"projectPaymentNotes,omitempty"`
	Description         string        `json:"description,omitempty" yaml:"description,omitempty"`
	Color               string        `json:"color,omitempty" yaml:"color,omitempty"`
	IsDeleted           bool          `json:"isDeleted,omitempty" yaml:"isDeleted,omitempty"`
}

// IsActive reports whether the project counts toward the active portfolio:
// not deleted and not completed.
func (p Project) IsActive() bool {
	return !p.IsDeleted && p.Status != ProjectCompleted
}
