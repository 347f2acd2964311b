package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/httpapi"
	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
)

var (
	serveAddr      string
	serveAnonymous bool
)

type pinger interface {
	Ping(context.Context) error
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		svc, ctx, err := loadServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		api := httpapi.Services{
			Task:    svc.Task,
			Stats:   svc.Stats,
			Finance: svc.Finance,
			Session: svc.Session,
			Clock:   svc.Clock,
			Events:  httpapi.NewEventStream(),
		}
		svc.Events.Register("sse", api.Events.Handle, events.Wildcard)
		if p, ok := svc.Workspace.Backend.(pinger); ok {
			api.Health = p.Ping
		}
		srv := httpapi.NewServer(api, svc.Logger)
		srv.AllowAnonymous = serveAnonymous

		addr := serveAddr
		if addr == "" {
			addr = svc.Workspace.Config.HTTP.Addr
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from http.addr)")
	serveCmd.Flags().BoolVar(&serveAnonymous, "allow-anonymous", false, "Accept requests without a bearer token")
	RootCmd.AddCommand(serveCmd)
}
