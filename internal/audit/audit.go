// Package audit records a JSONL trail of write-policy decisions and
// promptcache LLM calls alongside the blackboard, for after-the-fact
// review of why an entry was denied or what a demo agent actually sent.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileName is the JSONL file audit entries are appended to, relative to
// the directory passed to Append.
const FileName = "audit.jsonl"

// Entry is a single audit record. Kind distinguishes the record's shape:
//
//	"policy_denied" — a PreWrite/PreTombstone gate blocked a write
//	"llm_call"      — a promptcache demo call to a model provider
//	"llm_call_error" — a promptcache call refused or failed
//	"label"         — a human or agent annotation on a prior entry
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// llm_call fields
	Model    string `json:"model,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Response string `json:"response,omitempty"`

	// label fields
	ParentID string `json:"parent_id,omitempty"`
	Label    string `json:"label,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Append writes e as one JSON line to dir/FileName, creating the file if
// it doesn't exist, and returns the generated entry ID. The directory
// must already exist.
func Append(dir string, e *Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshaling audit entry: %w", err)
	}
	line = append(line, '\n')

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 - path from caller-controlled dir
	if err != nil {
		return "", fmt.Errorf("opening audit log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(line); err != nil {
		return "", fmt.Errorf("writing audit entry: %w", err)
	}

	return e.ID, nil
}
