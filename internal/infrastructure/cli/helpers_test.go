package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/finance"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

// resetFlags restores every flag in the tree to its default so runs do not
// leak into each other through the package-level flag variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command against the workspace in dir.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(RootCmd)
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(append([]string{"-C", dir, "--today", "2024-03-05"}, args...))
	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func seedTask(id, project string, status planning.TaskStatus, dependsOn string) planning.Task {
	t := planning.NewTask(project, id)
	t.ID = id
	t.Status = status
	t.DependsOnTaskID = dependsOn
	return t
}

// newWorkspace seeds a file workspace in a temp dir and returns its root.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	fs := storage.NewFilesystemBackend(filepath.Join(root, storage.DefaultDir))
	if err := fs.Initialize(); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	stores := storage.NewStores(fs)
	ctx := context.Background()

	must := func(_ string, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	must(stores.Projects.Put(ctx, planning.Project{ID: "p1", Name: "Gala", Status: planning.ProjectActive, FinancialGoal: 1000}))
	must(stores.Projects.Put(ctx, planning.Project{ID: "p2", Name: "Mailing", Status: planning.ProjectActive}))
	must(stores.Users.Put(ctx, access.User{ID: "u1", Name: "Admin", Username: "admin", Role: access.RoleSysAdmin, Active: true}))
	must(stores.Users.Put(ctx, access.User{ID: "u2", Name: "Worker", Username: "worker", Role: access.RoleWorker, Active: true, AccessibleProjects: []string{"p1"}}))
	must(stores.Tasks.Put(ctx, seedTask("t1", "p1", planning.StatusInProgress, "")))
	must(stores.Tasks.Put(ctx, seedTask("t2", "p1", planning.StatusNotStarted, "t1")))
	must(stores.Tasks.Put(ctx, seedTask("t3", "p2", planning.StatusNotStarted, "")))
	must(stores.Payments.Put(ctx, finance.Payment{ID: "pay1", ProjectID: "p1", Type: finance.Income, Status: finance.StatusPaid, ActualAmount: 250}))
	return root
}
