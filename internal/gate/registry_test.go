package gate

import (
	"testing"
)

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	g := &Gate{
		ID:          "decision",
		Hook:        HookPreWrite,
		Description: "decision point offered",
		Mode:        GateModeStrict,
	}

	if err := reg.Register(g); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if reg.Count() != 1 {
		t.Errorf("expected 1 gate, got %d", reg.Count())
	}
}

func TestRegistryDuplicateReject(t *testing.T) {
	reg := NewRegistry()

	g := &Gate{ID: "dup", Hook: HookPreWrite, Mode: GateModeStrict}
	if err := reg.Register(g); err != nil {
		t.Fatal(err)
	}

	if err := reg.Register(g); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()

	g := &Gate{ID: "test-gate", Hook: HookPreWrite, Mode: GateModeSoft}
	if err := reg.Register(g); err != nil {
		t.Fatal(err)
	}

	got := reg.Get("test-gate")
	if got == nil {
		t.Fatal("Get returned nil for registered gate")
	}
	if got.ID != "test-gate" {
		t.Errorf("expected ID %q, got %q", "test-gate", got.ID)
	}

	if reg.Get("nonexistent") != nil {
		t.Error("Get should return nil for unregistered gate")
	}
}

func TestRegistryGatesForHook(t *testing.T) {
	reg := NewRegistry()

	// Register gates for different hooks
	gates := []*Gate{
		{ID: "write-1", Hook: HookPreWrite, Mode: GateModeStrict},
		{ID: "write-2", Hook: HookPreWrite, Mode: GateModeSoft},
		{ID: "tombstone-1", Hook: HookPreTombstone, Mode: GateModeStrict},
		{ID: "compact-1", Hook: HookPreCompact, Mode: GateModeSoft},
	}
	for _, g := range gates {
		if err := reg.Register(g); err != nil {
			t.Fatalf("Register(%s) failed: %v", g.ID, err)
		}
	}

	// Check PreWrite gates
	writeGates := reg.GatesForHook(HookPreWrite)
	if len(writeGates) != 2 {
		t.Errorf("expected 2 PreWrite gates, got %d", len(writeGates))
	}

	// Check PreTombstone gates
	tombstoneGates := reg.GatesForHook(HookPreTombstone)
	if len(tombstoneGates) != 1 {
		t.Errorf("expected 1 PreTombstone gate, got %d", len(tombstoneGates))
	}

	// Check PreImport gates (none registered)
	importGates := reg.GatesForHook(HookPreImport)
	if len(importGates) != 0 {
		t.Errorf("expected 0 PreImport gates, got %d", len(importGates))
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()

	g := &Gate{ID: "removable", Hook: HookPreWrite, Mode: GateModeStrict}
	if err := reg.Register(g); err != nil {
		t.Fatal(err)
	}

	if reg.Count() != 1 {
		t.Fatalf("expected 1 gate, got %d", reg.Count())
	}

	reg.Unregister("removable")

	if reg.Count() != 0 {
		t.Errorf("expected 0 gates after unregister, got %d", reg.Count())
	}

	if reg.Get("removable") != nil {
		t.Error("Get should return nil after unregister")
	}

	writeGates := reg.GatesForHook(HookPreWrite)
	if len(writeGates) != 0 {
		t.Errorf("expected 0 PreWrite gates after unregister, got %d", len(writeGates))
	}
}

func TestRegistryUnregisterNonexistent(t *testing.T) {
	reg := NewRegistry()

	// Should not panic
	reg.Unregister("does-not-exist")
}

func TestRegistryAllGates(t *testing.T) {
	reg := NewRegistry()

	gates := []*Gate{
		{ID: "a", Hook: HookPreWrite, Mode: GateModeStrict},
		{ID: "b", Hook: HookPreTombstone, Mode: GateModeSoft},
		{ID: "c", Hook: HookPreCompact, Mode: GateModeStrict},
	}
	for _, g := range gates {
		if err := reg.Register(g); err != nil {
			t.Fatal(err)
		}
	}

	all := reg.AllGates()
	if len(all) != 3 {
		t.Errorf("expected 3 gates, got %d", len(all))
	}

	// Verify returned slice is a copy (modifying it shouldn't affect registry)
	all[0] = nil
	if reg.Get("a") == nil {
		t.Error("modifying AllGates result should not affect registry")
	}
}

func TestRegistryGatesForHookReturnsCopy(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&Gate{ID: "g1", Hook: HookPreWrite, Mode: GateModeStrict}); err != nil {
		t.Fatal(err)
	}

	gates := reg.GatesForHook(HookPreWrite)
	gates[0] = nil

	// Original should be unaffected
	gates2 := reg.GatesForHook(HookPreWrite)
	if gates2[0] == nil {
		t.Error("modifying GatesForHook result should not affect registry")
	}
}
