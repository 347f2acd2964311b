// Package storage persists domain records as documents in named
// collections. Backends store JSON-compatible maps; Collection converts
// them to and from typed records.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Collection names.
const (
	CollectionTasks         = "tasks"
	CollectionProjects      = "projects"
	CollectionUsers         = "users"
	CollectionPayments      = "payments"
	CollectionContacts      = "contacts"
	CollectionMeetings      = "meetings"
	CollectionOrganizations = "organizations"
	CollectionSessions      = "sessions"
	CollectionAudit         = "audit"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a stored record. The "id" key holds its identifier.
type Document map[string]any

// ID returns the document's id, or "" when it has none.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Backend is a document store with per-collection create, merge, delete
// and list operations.
type Backend interface {
	// Insert stores doc and returns its id. A document without an id gets a
	// new one.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// Merge writes the keys of patch over the stored document.
	Merge(ctx context.Context, collection, id string, patch Document) error
	Delete(ctx context.Context, collection, id string) error
	// All returns the documents of a collection in insertion order.
	All(ctx context.Context, collection string) ([]Document, error)
}

func newID() string { return uuid.NewString() }

// toDocument converts a record to its JSON document form.
func toDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// fromDocument decodes doc into a new T.
func fromDocument[T any](doc Document) (T, error) {
	var v T
	data, err := json.Marshal(doc)
	if err != nil {
		return v, fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode document %s: %w", doc.ID(), err)
	}
	return v, nil
}

func cloneDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
