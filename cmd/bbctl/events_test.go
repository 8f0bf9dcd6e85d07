package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/anthropics/blackboard/internal/blackboard"
	"github.com/anthropics/blackboard/internal/eventbus"
)

func TestBusSinkDispatchesToBus(t *testing.T) {
	var buf bytes.Buffer
	bus := eventbus.New()
	bus.Register(newProgressHandler(&buf))

	sink := newBusSink(bus)
	sink.Emit(blackboard.LifecycleEvent{
		Type:  blackboard.EventEpochAdvanced,
		Epoch: 3,
	})

	if !strings.Contains(buf.String(), "epoch -> 3") {
		t.Fatalf("expected progress line for epoch advance, got %q", buf.String())
	}
}

func TestProgressHandlerIgnoresUnhandledType(t *testing.T) {
	var buf bytes.Buffer
	h := newProgressHandler(&buf)

	if err := h.Handle(nil, &eventbus.Event{Type: eventbus.EventPolicyDenied}, &eventbus.Result{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for unhandled event type, got %q", buf.String())
	}
}
