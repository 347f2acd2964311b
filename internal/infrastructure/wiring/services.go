// Package wiring assembles the backend, event handlers and application
// services from configuration.
package wiring

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/config"
	"github.com/felixgeelhaar/nihulit/internal/infrastructure/messaging"
	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

// DeadLetterFile collects webhook notifications that could not be
// delivered, inside the file workspace's data directory.
const DeadLetterFile = "notify-deadletter.jsonl"

// AppServices exposes the application services wired to one workspace.
type AppServices struct {
	Workspace *Workspace
	Clock     calendar.Clock
	Events    *events.Dispatcher
	Logger    *slog.Logger

	Task    *application.TaskService
	Stats   *application.StatsService
	Finance *application.FinanceService
	Session *application.SessionService
	Audit   *application.AuditService

	amqp *messaging.AMQPPublisher
}

// Options overrides parts of the wiring.
type Options struct {
	Logger    *slog.Logger
	Clock     calendar.Clock
	Backend   storage.Backend
	Notifiers []events.Notifier
}

// BuildAppServices opens the workspace, registers event handlers and loads
// the task list.
func BuildAppServices(ctx context.Context, cfg *config.Config, opts Options) (*AppServices, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var ws *Workspace
	if opts.Backend != nil {
		ws = NewWorkspace(cfg, opts.Backend)
	} else {
		var err error
		if ws, err = OpenWorkspace(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = calendar.SystemClock{Location: cfg.Location()}
	}

	svc := &AppServices{
		Workspace: ws,
		Clock:     clock,
		Events:    events.NewDispatcher(),
		Logger:    logger,
	}
	svc.registerHandlers(cfg, opts.Notifiers)

	svc.Audit = application.NewAuditService(ws.Stores.Audit)
	svc.Task = application.NewTaskService(ws.Stores.Tasks, clock,
		application.WithEvents(svc.Events),
		application.WithAudit(svc.Audit),
		application.WithLogger(logger),
	)
	svc.Stats = application.NewStatsService(svc.Task, ws.Stores.Projects, ws.Stores.Users, clock)
	svc.Finance = application.NewFinanceService(ws.Stores.Payments, ws.Stores.Projects)
	svc.Session = application.NewSessionService(session.NewManager(ws.Stores.Sessions, cfg.Session.TTL), ws.Stores.Users)

	if err := svc.Task.Load(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return svc, nil
}

func (s *AppServices) registerHandlers(cfg *config.Config, notifiers []events.Notifier) {
	s.Events.Register("logging", events.NewLoggingHandler(s.Logger).Handle, events.Wildcard)

	if cfg.Notify.WebhookURL != "" {
		var opts []messaging.WebhookOption
		if cfg.Storage.Backend == config.BackendFile || cfg.Storage.Backend == "" {
			store := messaging.NewDeadLetterStore(filepath.Join(cfg.Storage.Dir, DeadLetterFile))
			opts = append(opts, messaging.WithDeadLetter(store))
		}
		notifiers = append(notifiers, messaging.NewWebhookNotifier(cfg.Notify.WebhookURL, opts...))
	}
	for i, n := range notifiers {
		s.Events.Register(fmt.Sprintf("notify-%d", i), events.NewSyncFailureHandler(n).Handle, events.EventTypeTaskSyncFailed)
	}

	if cfg.AMQP.URL == "" {
		return
	}
	pub, err := messaging.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, s.Logger)
	if err != nil {
		// Events stay local when the broker is unreachable.
		s.Logger.Warn("amqp publisher disabled", "error", err)
		return
	}
	s.amqp = pub
	s.Events.Register("amqp", pub.Handle,
		events.EventTypeTaskCompleted,
		events.EventTypeTaskActivated,
		events.EventTypeTaskSyncFailed,
		events.EventTypeTaskStatusChanged,
	)
}

// Close releases the broker connection and the backend.
func (s *AppServices) Close() {
	if s.amqp != nil {
		if err := s.amqp.Close(); err != nil {
			s.Logger.Warn("close amqp publisher", "error", err)
		}
	}
	s.Workspace.Close()
}
