package gate

// RegisterBuiltinGates registers the default write-policy gates described
// by DefaultPolicy. Callers that want a different gate set should build
// their own Registry and skip this, or Unregister/re-register individual
// gates afterward.
func RegisterBuiltinGates(reg *Registry) {
	gates := []*Gate{
		{
			ID:          "confidence-floor",
			Hook:        HookPreWrite,
			Description: "entry confidence must be >= 0.05",
			Mode:        GateModeStrict,
			AutoCheck:   func(ctx GateContext) bool { return ctx.Confidence >= 0.05 },
			Hint:        "raise the entry's confidence to at least 0.05",
		},
		{
			ID:          "author-present",
			Hook:        HookPreWrite,
			Description: "entry must name an author",
			Mode:        GateModeStrict,
			AutoCheck:   func(ctx GateContext) bool { return ctx.Author != "" },
		},
		{
			ID:          "content-nonempty",
			Hook:        HookPreWrite,
			Description: "entry content must not be empty",
			Mode:        GateModeStrict,
			AutoCheck:   func(ctx GateContext) bool { return ctx.Content != "" },
		},
		{
			ID:          "tombstone-author-match",
			Hook:        HookPreTombstone,
			Description: "tombstone issued by the entry's own author",
			Mode:        GateModeSoft,
			Hint:        "tombstoning another agent's entry can surprise it mid-task",
		},
		{
			ID:          "capacity-pressure",
			Hook:        HookPreCompact,
			Description: "store is near max_entries",
			Mode:        GateModeSoft,
			Hint:        "consider raising max_entries or tombstoning stale hypotheses",
		},
		{
			ID:          "import-hash-valid",
			Hook:        HookPreImport,
			Description: "imported entry hash matches its content",
			Mode:        GateModeStrict,
			Hint:        "the store itself re-validates this on ImportEntries; the gate exists for pre-flight checks",
		},
	}

	for _, g := range gates {
		_ = reg.Register(g)
	}
}
