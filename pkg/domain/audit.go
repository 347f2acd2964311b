// Package domain holds the audit trail record shared by every service.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Audit actions.
const (
	ActionTaskCreated      = "task.created"
	ActionTaskUpdated      = "task.updated"
	ActionTaskNotPersisted = "task.update_not_persisted"
	ActionTaskPropagated   = "task.propagated"
	ActionTaskDeleted      = "task.deleted"
	ActionTaskRetried      = "task.retried"
	ActionWorkspaceImport  = "workspace.imported"
)

// Event is a single auditable action. Events form a chain: each carries the
// hash of its predecessor.
type Event struct {
	ID        string         `json:"id" yaml:"id"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Action    string         `json:"action" yaml:"action"`
	Actor     string         `json:"actor" yaml:"actor"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	PrevHash  string         `json:"prevHash,omitempty" yaml:"prevHash,omitempty"`
	Hash      string         `json:"hash,omitempty" yaml:"hash,omitempty"`
}

// CalculateHash returns the SHA-256 of the event's fields and PrevHash.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	h.Write([]byte(e.PrevHash))
	h.Write([]byte(e.ID))
	h.Write([]byte(e.Timestamp.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte(e.Action))
	h.Write([]byte(e.Actor))
	h.Write([]byte(canonicalJSON(e.Metadata)))
	return hex.EncodeToString(h.Sum(nil))
}

// Seal links e to prev and stamps its hash.
func (e *Event) Seal(prevHash string) {
	e.PrevHash = prevHash
	e.Hash = e.CalculateHash()
}

// canonicalJSON renders metadata with sorted keys.
func canonicalJSON(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			out = append(out, ',')
		}
		kj, _ := json.Marshal(k)
		vj, _ := json.Marshal(m[k])
		out = append(out, kj...)
		out = append(out, ':')
		out = append(out, vj...)
	}
	return string(append(out, '}'))
}

// ChainViolation describes a broken link in the audit chain.
type ChainViolation struct {
	Index   int    `json:"index"`
	EventID string `json:"eventId"`
	Reason  string `json:"reason"`
}

func (v ChainViolation) String() string {
	return fmt.Sprintf("#%d %s: %s", v.Index, v.EventID, v.Reason)
}

// VerifyChain checks every event's hash and its link to the previous event.
func VerifyChain(events []Event) []ChainViolation {
	var out []ChainViolation
	prev := ""
	for i := range events {
		e := events[i]
		if e.PrevHash != prev {
			out = append(out, ChainViolation{Index: i, EventID: e.ID, Reason: "previous hash mismatch"})
		}
		if e.Hash != e.CalculateHash() {
			out = append(out, ChainViolation{Index: i, EventID: e.ID, Reason: "hash mismatch"})
		}
		prev = e.Hash
	}
	return out
}
