package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/config"
	"github.com/felixgeelhaar/nihulit/internal/infrastructure/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload derived state when data files change",
	Long: `Watch follows the data directory of a file workspace. Whenever another
process rewrites a collection, the task list is reloaded and a short
summary printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		cfg := svc.Workspace.Config
		if cfg.Storage.Backend != config.BackendFile && cfg.Storage.Backend != "" {
			return &CLIError{
				Message:  fmt.Sprintf("watch needs the file backend, not %q", cfg.Storage.Backend),
				ExitCode: ExitUsage,
			}
		}

		out := cmd.OutOrStdout()
		w, err := watch.New(cfg.Storage.Dir, watch.Options{
			Debounce:  cfg.Watch.Debounce,
			Publisher: svc.Events,
			Logger:    svc.Logger,
			OnChange: func(ctx context.Context, c watch.Change) {
				if err := svc.Task.Load(ctx); err != nil {
					svc.Logger.Error("reload tasks", "error", err)
					return
				}
				views := svc.Task.Views(svc.Clock.Today())
				late := 0
				for _, v := range views {
					if v.IsLate {
						late++
					}
				}
				fmt.Fprintf(out, "%s %s: %d tasks, %d late\n", styleMuted.Render(c.Op), c.Path, len(views), late)
			},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", cfg.Storage.Dir)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
