package planning

// StatusChange is a further update produced by propagation. It still has to
// pass through ApplyStatusChange before it is persisted.
type StatusChange struct {
	TaskID string
	Update TaskUpdate
}

// PropagateCompletion returns the activations caused by completedID reaching
// Done: every NotStarted task of the same project whose DependsOnTaskID is
// completedID moves to InProgress. It goes one level deep only. The order
// of the result follows tasks and carries no meaning.
func PropagateCompletion(tasks []Task, completedID string) []StatusChange {
	if completedID == "" {
		return nil
	}

	projectID := ""
	for _, t := range tasks {
		if t.ID == completedID {
			projectID = t.ProjectID
			break
		}
	}

	var changes []StatusChange
	for _, t := range tasks {
		if t.ID == completedID || t.DependsOnTaskID != completedID {
			continue
		}
		if t.Status != StatusNotStarted {
			continue
		}
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		changes = append(changes, StatusChange{
			TaskID: t.ID,
			Update: StatusUpdate(StatusInProgress),
		})
	}
	return changes
}

// Dependents returns the tasks that name taskID as their prerequisite.
func Dependents(tasks []Task, taskID string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.DependsOnTaskID == taskID && t.ID != taskID {
			out = append(out, t)
		}
	}
	return out
}
