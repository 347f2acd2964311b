package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/pkg/domain"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON export into the workspace",
	Long: `Import reads a JSON export with projects, tasks, users, payments and
contacts, validates it and writes every record, replacing records that
share an id. Legacy status and role labels are mapped to their canonical
values.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read export: %w", err)
		}
		exp, err := storage.ParseExport(data)
		if err != nil {
			return MapError(err)
		}

		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		if u, ok := access.UserFrom(ctx); ok && u.Role != access.RoleSysAdmin {
			return MapError(&access.PermissionError{UserID: u.ID, Action: "import", Target: "workspace"})
		}

		report, err := storage.Import(ctx, svc.Workspace.Stores, exp)
		if err != nil {
			return MapError(err)
		}
		if err := svc.Task.Load(ctx); err != nil {
			return err
		}
		if err := svc.Audit.Log(ctx, domain.ActionWorkspaceImport, access.ActorFrom(ctx), map[string]any{
			"file":    args[0],
			"records": map[string]int(report),
		}); err != nil {
			svc.Logger.Warn("audit import", "error", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), report)
		}
		names := make([]string, 0, len(report))
		for name := range report {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", name, report[name])
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(importCmd)
}
