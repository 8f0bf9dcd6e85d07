package eventbus

import (
	"context"
	"testing"
)

type recordingHandler struct {
	id       string
	events   []EventType
	priority int
	calls    []EventType
	callLog  *[]string
}

func (h *recordingHandler) ID() string           { return h.id }
func (h *recordingHandler) Handles() []EventType { return h.events }
func (h *recordingHandler) Priority() int        { return h.priority }
func (h *recordingHandler) Handle(_ context.Context, event *Event, result *Result) error {
	h.calls = append(h.calls, event.Type)
	if h.callLog != nil {
		*h.callLog = append(*h.callLog, h.id)
	}
	return nil
}

func TestDispatchCallsMatchingHandlersInPriorityOrder(t *testing.T) {
	b := New()
	var order []string

	first := &recordingHandler{id: "first", events: []EventType{EventEpochAdvanced}, priority: 0, callLog: &order}
	second := &recordingHandler{id: "second", events: []EventType{EventEpochAdvanced}, priority: 10, callLog: &order}
	b.Register(second)
	b.Register(first)

	_, err := b.Dispatch(context.Background(), &Event{Type: EventEpochAdvanced, Epoch: 1})
	if err != nil {
		t.Fatal(err)
	}

	for _, h := range []*recordingHandler{first, second} {
		if len(h.calls) != 1 {
			t.Fatalf("handler %s: expected 1 call, got %d", h.id, len(h.calls))
		}
	}
	if order[0] != "first" {
		t.Errorf("expected first handler called before second by priority")
	}
}

func TestDispatchSkipsNonMatchingHandlers(t *testing.T) {
	b := New()
	h := &recordingHandler{id: "compact-only", events: []EventType{EventCompacted}}
	b.Register(h)

	_, err := b.Dispatch(context.Background(), &Event{Type: EventEpochAdvanced})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.calls) != 0 {
		t.Errorf("expected handler not to be called for a non-matching event type")
	}
}

func TestDispatchNilEvent(t *testing.T) {
	b := New()
	if _, err := b.Dispatch(context.Background(), nil); err == nil {
		t.Error("expected error for nil event")
	}
}

func TestUnregister(t *testing.T) {
	b := New()
	h := &recordingHandler{id: "h1", events: []EventType{EventEntryPosted}}
	b.Register(h)

	if !b.Unregister("h1") {
		t.Fatal("expected Unregister to report removal")
	}
	if b.Unregister("h1") {
		t.Error("expected second Unregister to report no-op")
	}

	_, err := b.Dispatch(context.Background(), &Event{Type: EventEntryPosted})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.calls) != 0 {
		t.Error("unregistered handler should not be called")
	}
}

func TestHandlersReturnsCopy(t *testing.T) {
	b := New()
	b.Register(&recordingHandler{id: "a"})

	list := b.Handlers()
	list[0] = nil

	if b.Handlers()[0] == nil {
		t.Error("modifying Handlers() result should not affect the bus")
	}
}
