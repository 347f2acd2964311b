package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Change is a debounced change to a data file.
type Change struct {
	Path string
	Op   string // create, write, remove, rename
}

// Options configures a Watcher.
type Options struct {
	Debounce  time.Duration
	Filter    Filter
	Publisher events.Publisher
	Logger    *slog.Logger
	// OnChange runs after the DataChanged event has been published.
	OnChange func(context.Context, Change)
}

// Watcher reports changes to the files of one data directory.
type Watcher struct {
	dir     string
	fs      *fsnotify.Watcher
	opts    Options
	changes chan Change
}

// New watches dir. The directory must exist.
func New(dir string, opts Options) (*Watcher, error) {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Filter.Include == nil && opts.Filter.Exclude == nil {
		opts.Filter = DataFiles
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, fs: fw, opts: opts, changes: make(chan Change, 1)}, nil
}

// Run delivers changes until ctx is cancelled and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	debouncer := NewDebouncer(w.opts.Debounce, func(c Change) {
		select {
		case w.changes <- c:
		default:
			// A change is already queued; it triggers the same refresh.
		}
	})
	defer debouncer.Stop()

	w.opts.Logger.Debug("watching data directory", "dir", w.dir, "debounce", w.opts.Debounce)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			op := opName(event.Op)
			if op == "" || !w.opts.Filter.Matches(event.Name) {
				continue
			}
			debouncer.Trigger(Change{Path: event.Name, Op: op})
		case c := <-w.changes:
			w.deliver(ctx, c)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *Watcher) deliver(ctx context.Context, c Change) {
	if err := w.opts.Publisher.Publish(ctx, events.NewDataChanged(c.Path, c.Op)); err != nil {
		w.opts.Logger.Warn("publish data change failed", "path", c.Path, "error", err)
	}
	if w.opts.OnChange != nil {
		w.opts.OnChange(ctx, c)
	}
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
