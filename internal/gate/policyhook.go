package gate

import (
	"fmt"

	"github.com/anthropics/blackboard/internal/blackboard"
)

// Enforcer adapts a gate Registry into a blackboard.PolicyHook, so a
// configured set of gates can be wired directly into blackboard.NewStore.
type Enforcer struct {
	reg *Registry
}

// NewEnforcer builds an Enforcer around reg. A nil reg is treated as an
// empty registry (every write allowed).
func NewEnforcer(reg *Registry) *Enforcer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Enforcer{reg: reg}
}

// AllowPost implements blackboard.PolicyHook. It runs the PreWrite gates
// against e and returns blackboard.ErrPolicyDenied wrapping the block
// reason if any strict gate is unsatisfied.
func (en *Enforcer) AllowPost(e blackboard.Entry) error {
	ctx := GateContext{
		HookType:   HookPreWrite,
		Author:     e.Author,
		EntryKind:  string(e.Kind),
		Content:    e.Content,
		Confidence: e.Confidence,
	}

	resp := EvaluateHook(HookPreWrite, ctx, en.reg)
	if resp.Decision == "block" {
		return fmt.Errorf("%w: %s", blackboard.ErrPolicyDenied, resp.Reason)
	}
	return nil
}

// AllowTombstone runs the PreTombstone gates for e. Store.Tombstone does
// not currently call this directly; it's available for callers (like
// cmd/bbctl) that want to gate tombstoning before calling Store.Tombstone.
func (en *Enforcer) AllowTombstone(e blackboard.Entry) error {
	ctx := GateContext{
		HookType:   HookPreTombstone,
		Author:     e.Author,
		EntryKind:  string(e.Kind),
		Content:    e.Content,
		Confidence: e.Confidence,
	}

	resp := EvaluateHook(HookPreTombstone, ctx, en.reg)
	if resp.Decision == "block" {
		return fmt.Errorf("%w: %s", blackboard.ErrPolicyDenied, resp.Reason)
	}
	return nil
}
