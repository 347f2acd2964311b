package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/finance"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

const validExport = `{
  "projects": [{"id": "p1", "name": "Annual campaign", "status": "פעיל"}],
  "tasks": [
    {"id": "t1", "projectId": "p1", "name": "Kickoff", "status": "הושלם", "progress": 100},
    {"id": "t2", "projectId": "p1", "name": "Letters", "dependsOnTaskId": "t1", "plannedEndDate": "2024-04-01"}
  ],
  "users": [{"id": "u1", "username": "dana", "role": "SYS_ADMIN", "active": true}],
  "payments": [{"id": "pay1", "projectId": "p1", "type": "הכנסה", "status": "שולם", "actualAmount": 250}],
  "contacts": [{"id": "c1", "name": "Avi", "projectIds": ["all"]}]
}`

func TestParseExport(t *testing.T) {
	exp, err := ParseExport([]byte(validExport))
	if err != nil {
		t.Fatalf("ParseExport() error = %v", err)
	}
	if exp.Tasks[0].Status != planning.StatusDone {
		t.Errorf("legacy status = %s, want done", exp.Tasks[0].Status)
	}
	if exp.Tasks[1].Status != planning.StatusNotStarted || exp.Tasks[1].Priority != planning.PriorityMedium {
		t.Errorf("defaults = %s/%s", exp.Tasks[1].Status, exp.Tasks[1].Priority)
	}
	if exp.Projects[0].Status != planning.ProjectActive {
		t.Errorf("project status = %s, want active", exp.Projects[0].Status)
	}
	if exp.Users[0].Role != access.RoleSysAdmin {
		t.Errorf("role = %s, want sys_admin", exp.Users[0].Role)
	}
	if exp.Payments[0].Type != finance.Income || exp.Payments[0].Status != finance.StatusPaid {
		t.Errorf("payment = %+v", exp.Payments[0])
	}
}

func TestParseExport_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an object", `[]`},
		{"unknown collection", `{"widgets": []}`},
		{"task without project", `{"tasks": [{"id": "t1"}]}`},
		{"progress out of range", `{"tasks": [{"id": "t1", "projectId": "p1", "progress": 140}]}`},
		{"bad date", `{"tasks": [{"id": "t1", "projectId": "p1", "plannedEndDate": "01/02/2024"}]}`},
		{"cycle", `{"tasks": [
			{"id": "a", "projectId": "p1", "dependsOnTaskId": "b"},
			{"id": "b", "projectId": "p1", "dependsOnTaskId": "a"}]}`},
		{"unknown payment type", `{"payments": [{"id": "x", "projectId": "p1", "type": "gift"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseExport([]byte(tt.data)); !errors.Is(err, ErrInvalidExport) {
				t.Errorf("ParseExport() error = %v, want ErrInvalidExport", err)
			}
		})
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	exp, err := ParseExport([]byte(validExport))
	if err != nil {
		t.Fatal(err)
	}
	stores := NewStores(NewMemoryBackend())
	report, err := Import(ctx, stores, exp)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report[CollectionTasks] != 2 || report[CollectionProjects] != 1 || report[CollectionContacts] != 1 {
		t.Errorf("report = %v", report)
	}

	tasks, _ := stores.Tasks.List(ctx)
	if len(tasks) != 2 || tasks[1].DependsOnTaskID != "t1" {
		t.Errorf("imported tasks = %+v", tasks)
	}

	// Importing again replaces by id rather than duplicating.
	if _, err := Import(ctx, stores, exp); err != nil {
		t.Fatal(err)
	}
	if tasks, _ := stores.Tasks.List(ctx); len(tasks) != 2 {
		t.Errorf("tasks after re-import = %d, want 2", len(tasks))
	}
}
