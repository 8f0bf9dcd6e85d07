package blackboard

import "errors"

// Sentinel errors surfaced by the store. Wrap with fmt.Errorf("...: %w", ...)
// at call sites and unwrap with errors.Is/errors.As.
var (
	// ErrNotFound is returned by operations that require a hash to already
	// be present (tombstone) when it is not.
	ErrNotFound = errors.New("blackboard: not found")

	// ErrPolicyDenied is returned when a write-policy gate refuses a post.
	ErrPolicyDenied = errors.New("blackboard: policy denied")

	// ErrStorage covers underlying persistence or lock failures.
	ErrStorage = errors.New("blackboard: storage error")

	// ErrSerialization covers malformed import/export payloads, including
	// hash-validation failures on import.
	ErrSerialization = errors.New("blackboard: serialization error")

	// ErrVectorBackend is returned by the optional vector-backed store
	// variant when the delegate backend reports a failure.
	ErrVectorBackend = errors.New("blackboard: vector backend error")

	// ErrSync covers agent-to-agent export/import transfer failures.
	ErrSync = errors.New("blackboard: sync error")
)
