package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/config"
	"github.com/felixgeelhaar/nihulit/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
)

const sessionFile = "session.token"

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

func loadConfig() (*config.Config, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return config.Load(root)
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func clockFor(cfg *config.Config) (calendar.Clock, error) {
	if todayFlag == "" {
		return calendar.SystemClock{Location: cfg.Location()}, nil
	}
	t, ok := calendar.ParseDate(todayFlag)
	if !ok {
		return nil, &CLIError{Message: "invalid --today date " + todayFlag, Hint: "Use YYYY-MM-DD", ExitCode: ExitUsage}
	}
	return calendar.FixedClock{Date: t}, nil
}

// consoleNotifier prints "not saved" notices to the command's stderr.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Notify(_ context.Context, title, message string) error {
	_, err := fmt.Fprintf(n.w, "%s %s\n", styleWarn.Render(strings.ToUpper(title)+":"), message)
	return err
}

// loadServices builds the services for the workspace and returns a context
// carrying the logged-in user, if any.
func loadServices(cmd *cobra.Command) (*wiring.AppServices, context.Context, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	clock, err := clockFor(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	svc, err := wiring.BuildAppServices(cmd.Context(), cfg, wiring.Options{
		Logger:    logger,
		Clock:     clock,
		Notifiers: []events.Notifier{consoleNotifier{w: cmd.ErrOrStderr()}},
	})
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	token, err := readSessionToken(cfg)
	if err != nil {
		svc.Close()
		return nil, nil, err
	}
	if token != "" {
		u, err := svc.Session.Current(ctx, token)
		switch {
		case err == nil:
			ctx = access.WithUser(ctx, u)
		case errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrNotFound):
			// A stale token means "not logged in".
			logger.Debug("discarding stale session", "error", err)
			_ = clearSessionToken(cfg)
		default:
			svc.Close()
			return nil, nil, err
		}
	}
	return svc, ctx, nil
}

func sessionPath(cfg *config.Config) string {
	return filepath.Join(cfg.Storage.Dir, sessionFile)
}

func readSessionToken(cfg *config.Config) (string, error) {
	data, err := os.ReadFile(sessionPath(cfg))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func writeSessionToken(cfg *config.Config, token string) error {
	if err := os.MkdirAll(cfg.Storage.Dir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return os.WriteFile(sessionPath(cfg), []byte(token+"\n"), 0600)
}

func clearSessionToken(cfg *config.Config) error {
	err := os.Remove(sessionPath(cfg))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
