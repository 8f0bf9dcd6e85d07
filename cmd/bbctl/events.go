package main

import (
	"context"
	"fmt"
	"io"

	"github.com/anthropics/blackboard/internal/blackboard"
	"github.com/anthropics/blackboard/internal/eventbus"
)

// busSink adapts a blackboard.EventSink to an *eventbus.Bus, translating
// each LifecycleEvent into an eventbus.Event and dispatching it. Dispatch
// errors (a nil event, a canceled context) are swallowed: a store write
// must never fail because progress reporting did.
type busSink struct {
	bus *eventbus.Bus
}

func newBusSink(bus *eventbus.Bus) *busSink {
	return &busSink{bus: bus}
}

func (s *busSink) Emit(event blackboard.LifecycleEvent) {
	_, _ = s.bus.Dispatch(context.Background(), &eventbus.Event{
		Type:      eventbus.EventType(event.Type),
		EntryHash: event.EntryHash,
		Author:    event.Author,
		Epoch:     event.Epoch,
		Reason:    event.Reason,
	})
}

// progressHandler prints a muted one-line progress note for epoch
// advances, compactions, and tombstones — the three lifecycle events a
// person running bbctl interactively cares about watching scroll by.
type progressHandler struct {
	out io.Writer
}

func newProgressHandler(out io.Writer) progressHandler {
	return progressHandler{out: out}
}

func (progressHandler) ID() string { return "bbctl.progress" }

func (progressHandler) Handles() []eventbus.EventType {
	return []eventbus.EventType{
		eventbus.EventEpochAdvanced,
		eventbus.EventCompacted,
		eventbus.EventEntryTombstoned,
	}
}

func (progressHandler) Priority() int { return 100 }

func (h progressHandler) Handle(_ context.Context, event *eventbus.Event, _ *eventbus.Result) error {
	var line string
	switch event.Type {
	case eventbus.EventEpochAdvanced:
		line = fmt.Sprintf("epoch -> %d", event.Epoch)
	case eventbus.EventCompacted:
		line = fmt.Sprintf("compacted at epoch %d (%s)", event.Epoch, event.Reason)
	case eventbus.EventEntryTombstoned:
		line = fmt.Sprintf("tombstoned %s (%s)", event.EntryHash, event.Reason)
	default:
		return nil
	}
	fmt.Fprintln(h.out, mutedStyle.Render(line))
	return nil
}
