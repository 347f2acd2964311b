package planning

import "fmt"

// ItemType distinguishes phases, tasks and subtasks in a project plan.
type ItemType string

const (
	ItemPhase   ItemType = "phase"
	ItemTask    ItemType = "task"
	ItemSubTask ItemType = "subtask"
)

// IsValid reports whether the item type is known.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemPhase, ItemTask, ItemSubTask:
		return true
	}
	return false
}

// ParseItemType parses an item type, accepting legacy labels.
func ParseItemType(s string) (ItemType, error) {
	switch s {
	case "שלב":
		return ItemPhase, nil
	case "משימה":
		return ItemTask, nil
	case "תת-משימה":
		return ItemSubTask, nil
	}
	t := ItemType(normalizeName(s))
	if t == "sub_task" {
		t = ItemSubTask
	}
	if !t.IsValid() {
		return "", fmt.Errorf("invalid item type: %s", s)
	}
	return t, nil
}

// SchedulingMode records how a task's planned dates were chosen.
type SchedulingMode string

const (
	ScheduleFixed             SchedulingMode = "fixed"
	ScheduleAfterParentFinish SchedulingMode = "after_parent_finish"
	ScheduleWithParentStart   SchedulingMode = "with_parent_start"
)

// Category groups tasks by discipline.
type Category string

const (
	CategoryStrategy      Category = "strategy"
	CategorySpecification Category = "specification"
	CategoryCreative      Category = "creative"
	CategoryContent       Category = "content"
	CategoryMedia         Category = "media"
	CategorySuppliers     Category = "suppliers"
	CategoryOperations    Category = "operations"
	CategoryFinance       Category = "finance"
	CategoryReports       Category = "reports"
	CategoryControl       Category = "control"
)
