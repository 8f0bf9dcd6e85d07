package gate

import (
	"encoding/json"
	"testing"
)

func TestParsePolicy_Empty(t *testing.T) {
	policy, err := ParsePolicy(nil)
	if err != nil {
		t.Fatal(err)
	}
	if policy == nil {
		t.Fatal("expected non-nil policy")
	}
}

func TestParsePolicy_ValidJSON(t *testing.T) {
	data := json.RawMessage(`{
		"hooks": {
			"PreWrite": {
				"gates": {
					"confidence-floor": {"mode": "soft"},
					"author-present": {"mode": "strict"}
				}
			},
			"PreTombstone": {
				"gates": {
					"tombstone-author-match": {"mode": "soft"}
				}
			}
		}
	}`)

	policy, err := ParsePolicy(data)
	if err != nil {
		t.Fatal(err)
	}

	writePolicy, ok := policy.Hooks[HookPreWrite]
	if !ok {
		t.Fatal("expected PreWrite hook policy")
	}

	confPolicy, ok := writePolicy.Gates["confidence-floor"]
	if !ok {
		t.Fatal("expected confidence-floor gate policy")
	}
	if confPolicy.Mode != "soft" {
		t.Errorf("expected confidence-floor mode 'soft', got %q", confPolicy.Mode)
	}

	authorPolicy, ok := writePolicy.Gates["author-present"]
	if !ok {
		t.Fatal("expected author-present gate policy")
	}
	if authorPolicy.Mode != "strict" {
		t.Errorf("expected author-present mode 'strict', got %q", authorPolicy.Mode)
	}

	tombstonePolicy, ok := policy.Hooks[HookPreTombstone]
	if !ok {
		t.Fatal("expected PreTombstone hook policy")
	}
	if len(tombstonePolicy.Gates) != 1 {
		t.Errorf("expected 1 PreTombstone gate, got %d", len(tombstonePolicy.Gates))
	}
}

func TestParsePolicy_UnknownHookType(t *testing.T) {
	data := json.RawMessage(`{
		"hooks": {
			"UnknownHook": {
				"gates": {"foo": {"mode": "strict"}}
			},
			"PreWrite": {
				"gates": {"confidence-floor": {"mode": "soft"}}
			}
		}
	}`)

	policy, err := ParsePolicy(data)
	if err != nil {
		t.Fatal(err)
	}

	// Unknown hook should be skipped
	if len(policy.Hooks) != 1 {
		t.Errorf("expected 1 hook (PreWrite), got %d", len(policy.Hooks))
	}
}

func TestParsePolicy_InvalidJSON(t *testing.T) {
	data := json.RawMessage(`invalid json`)
	_, err := ParsePolicy(data)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApplyPolicy(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltinGates(reg)

	// Verify initial modes
	if reg.Get("confidence-floor").Mode != GateModeStrict {
		t.Error("confidence-floor should start as strict")
	}
	if reg.Get("tombstone-author-match").Mode != GateModeSoft {
		t.Error("tombstone-author-match should start as soft")
	}

	// Apply a policy that flips modes
	policy := &Policy{
		Hooks: map[HookType]HookPolicy{
			HookPreWrite: {
				Gates: map[string]GatePolicy{
					"confidence-floor": {Mode: "soft"},
				},
			},
			HookPreTombstone: {
				Gates: map[string]GatePolicy{
					"tombstone-author-match": {Mode: "strict"},
				},
			},
		},
	}

	ApplyPolicy(reg, policy)

	if reg.Get("confidence-floor").Mode != GateModeSoft {
		t.Error("confidence-floor should be soft after policy")
	}
	if reg.Get("tombstone-author-match").Mode != GateModeStrict {
		t.Error("tombstone-author-match should be strict after policy")
	}
}

func TestApplyPolicy_UnregisteredGate(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltinGates(reg)

	// Policy references a gate that doesn't exist
	policy := &Policy{
		Hooks: map[HookType]HookPolicy{
			HookPreWrite: {
				Gates: map[string]GatePolicy{
					"nonexistent-gate": {Mode: "strict"},
				},
			},
		},
	}

	// Should not panic
	ApplyPolicy(reg, policy)
}

func TestApplyPolicy_Nil(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltinGates(reg)

	// Should not panic
	ApplyPolicy(reg, nil)
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	// Should have all 4 hook types
	if len(policy.Hooks) != 4 {
		t.Errorf("expected 4 hook types, got %d", len(policy.Hooks))
	}

	writePolicy, ok := policy.Hooks[HookPreWrite]
	if !ok {
		t.Fatal("missing PreWrite hook")
	}
	if writePolicy.Gates["confidence-floor"].Mode != "strict" {
		t.Error("confidence-floor default should be strict")
	}
	if writePolicy.Gates["author-present"].Mode != "strict" {
		t.Error("author-present default should be strict")
	}
}

func TestParsePolicyRoundTrip(t *testing.T) {
	policy := DefaultPolicy()

	// Serialize
	data, err := json.Marshal(policy)
	if err != nil {
		t.Fatal(err)
	}

	// Parse back
	parsed, err := ParsePolicy(data)
	if err != nil {
		t.Fatal(err)
	}

	// Verify same number of hooks
	if len(parsed.Hooks) != len(policy.Hooks) {
		t.Errorf("expected %d hooks, got %d", len(policy.Hooks), len(parsed.Hooks))
	}
}
