package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"
)

// DefaultDir is the data directory inside the workspace.
const DefaultDir = ".nihulit"

// FilesystemBackend stores each collection as a YAML list in
// <root>/<collection>.yaml.
type FilesystemBackend struct {
	mu          sync.Mutex
	root        string
	retryConfig retry.Config
}

func NewFilesystemBackend(root string) *FilesystemBackend {
	return &FilesystemBackend{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the data directory.
func (f *FilesystemBackend) Root() string {
	return f.root
}

// Initialize creates the data directory.
func (f *FilesystemBackend) Initialize() error {
	if err := os.MkdirAll(f.root, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// ResolvePath maps a collection to its file, refusing names that would
// escape the data directory.
func (f *FilesystemBackend) ResolvePath(collection string) (string, error) {
	if collection == "" {
		return "", fmt.Errorf("collection name cannot be empty")
	}
	base := filepath.Clean(f.root)
	path := filepath.Clean(filepath.Join(base, collection+".yaml"))
	if !strings.HasPrefix(path, base) || filepath.Dir(path) != base {
		return "", fmt.Errorf("invalid collection name: %s", collection)
	}
	return path, nil
}

// load reads a collection, retrying transient read errors. A missing file
// is an empty collection.
func (f *FilesystemBackend) load(ctx context.Context, collection string) ([]Document, error) {
	path, err := f.ResolvePath(collection)
	if err != nil {
		return nil, err
	}
	retryer := retry.New[[]Document](f.retryConfig)
	return retryer.Do(ctx, func(ctx context.Context) ([]Document, error) {
		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return []Document{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", collection, err)
		}
		var docs []Document
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", collection, err)
		}
		if docs == nil {
			docs = []Document{}
		}
		return docs, nil
	})
}

// save writes a collection through a temp file and rename.
func (f *FilesystemBackend) save(collection string, docs []Document) error {
	path, err := f.ResolvePath(collection)
	if err != nil {
		return err
	}
	if err := f.Initialize(); err != nil {
		return err
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", collection, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	return os.Rename(tmp, path)
}

func (f *FilesystemBackend) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs, err := f.load(ctx, collection)
	if err != nil {
		return "", err
	}
	doc = cloneDocument(doc)
	id := doc.ID()
	if id == "" {
		id = newID()
		doc["id"] = id
	}
	replaced := false
	for i, d := range docs {
		if d.ID() == id {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}
	return id, f.save(collection, docs)
}

func (f *FilesystemBackend) Merge(ctx context.Context, collection, id string, patch Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs, err := f.load(ctx, collection)
	if err != nil {
		return err
	}
	for i, d := range docs {
		if d.ID() != id {
			continue
		}
		for k, v := range patch {
			if k != "id" {
				d[k] = v
			}
		}
		docs[i] = d
		return f.save(collection, docs)
	}
	return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
}

func (f *FilesystemBackend) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs, err := f.load(ctx, collection)
	if err != nil {
		return err
	}
	for i, d := range docs {
		if d.ID() == id {
			return f.save(collection, append(docs[:i], docs[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
}

func (f *FilesystemBackend) All(ctx context.Context, collection string) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(ctx, collection)
}
