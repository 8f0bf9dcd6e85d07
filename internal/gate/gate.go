// Package gate implements write-policy gates for the blackboard: per-hook
// authorization checks that can block or warn on a proposed mutation
// before it takes effect. A Gate's AutoCheck function inspects the
// proposed entry (and surrounding context) and decides whether the gate
// is satisfied; unsatisfied strict gates block the operation, unsatisfied
// soft gates produce a warning but allow it through.
package gate

import (
	"fmt"
	"strings"
)

// HookType identifies which blackboard operation a gate guards.
type HookType string

const (
	// HookPreWrite fires before Store.Post accepts a new entry.
	HookPreWrite HookType = "PreWrite"
	// HookPreTombstone fires before Store.Tombstone marks an entry dead.
	HookPreTombstone HookType = "PreTombstone"
	// HookPreCompact fires before Store.Compact runs.
	HookPreCompact HookType = "PreCompact"
	// HookPreImport fires before Store.ImportEntries accepts a batch from
	// another agent or process.
	HookPreImport HookType = "PreImport"
)

// ValidHookTypes returns all valid hook types.
func ValidHookTypes() []HookType {
	return []HookType{HookPreWrite, HookPreTombstone, HookPreCompact, HookPreImport}
}

// ParseHookType parses a string into a HookType, case-insensitive.
func ParseHookType(s string) (HookType, error) {
	lower := strings.ToLower(s)
	for _, h := range ValidHookTypes() {
		if strings.ToLower(string(h)) == lower {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown hook type %q (valid: PreWrite, PreTombstone, PreCompact, PreImport)", s)
}

// GateMode determines whether a gate blocks or warns.
type GateMode string

const (
	GateModeStrict GateMode = "strict" // block the operation
	GateModeSoft   GateMode = "soft"   // warn but allow
)

// GateContext provides runtime context for a gate's AutoCheck function.
// The Enforcer populates Author and EntryKind for PreWrite and
// PreTombstone; Content is the raw string content, truncated display is
// the caller's concern, not the gate's.
type GateContext struct {
	SessionID string
	HookType  HookType
	Author    string
	EntryKind string
	Content   string
	Confidence float64
}

// Gate defines a write-policy gate that can block or warn on a hook.
type Gate struct {
	ID          string
	Hook        HookType
	Description string
	Mode        GateMode
	AutoCheck   func(ctx GateContext) bool
	Hint        string
}

// GateResult holds the outcome of checking a single gate.
type GateResult struct {
	GateID    string   `json:"gate_id"`
	Hook      HookType `json:"hook"`
	Satisfied bool     `json:"satisfied"`
	Mode      GateMode `json:"mode"`
	Message   string   `json:"message,omitempty"`
	Hint      string   `json:"hint,omitempty"`
}

// CheckResponse is the decision for a hook check across all its gates.
type CheckResponse struct {
	Decision string       `json:"decision"` // "allow" or "block"
	Reason   string       `json:"reason,omitempty"`
	Results  []GateResult `json:"results,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// CheckGatesForHook evaluates all registered gates for the given hook type
// against ctx, running each gate's AutoCheck function. A gate with no
// AutoCheck is treated as always satisfied (it exists only to be
// overridden by policy — see policy.go).
func CheckGatesForHook(hookType HookType, ctx GateContext, reg *Registry) []GateResult {
	gates := reg.GatesForHook(hookType)
	results := make([]GateResult, 0, len(gates))

	for _, g := range gates {
		result := GateResult{GateID: g.ID, Hook: g.Hook, Mode: g.Mode, Hint: g.Hint}

		satisfied := g.AutoCheck == nil || g.AutoCheck(ctx)
		result.Satisfied = satisfied
		if satisfied {
			result.Message = "satisfied"
		} else {
			result.Message = g.Description
		}
		results = append(results, result)
	}

	return results
}

// EvaluateHook checks all gates for a hook type and returns a
// CheckResponse. If any strict gate is unsatisfied, the decision is
// "block"; unsatisfied soft gates produce warnings but allow the
// operation through.
func EvaluateHook(hookType HookType, ctx GateContext, reg *Registry) *CheckResponse {
	results := CheckGatesForHook(hookType, ctx, reg)

	resp := &CheckResponse{Decision: "allow", Results: results}

	var blockReasons []string
	for _, r := range results {
		if r.Satisfied {
			continue
		}
		switch r.Mode {
		case GateModeStrict:
			blockReasons = append(blockReasons, fmt.Sprintf("%s: %s", r.GateID, r.Message))
		case GateModeSoft:
			warning := fmt.Sprintf("%s: %s", r.GateID, r.Message)
			if r.Hint != "" {
				warning += fmt.Sprintf(" (hint: %s)", r.Hint)
			}
			resp.Warnings = append(resp.Warnings, warning)
		}
	}

	if len(blockReasons) > 0 {
		resp.Decision = "block"
		resp.Reason = strings.Join(blockReasons, "; ")
	}

	return resp
}
