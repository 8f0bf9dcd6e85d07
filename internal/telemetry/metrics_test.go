package telemetry

import "testing"

func TestMeterAndTracerNeverNil(t *testing.T) {
	if Meter("") == nil {
		t.Fatal("Meter should never return nil, even before Init")
	}
	if Tracer("") == nil {
		t.Fatal("Tracer should never return nil, even before Init")
	}
}

func TestMeterDefaultsInstrumentationName(t *testing.T) {
	// Calling with an empty name should not panic and should be stable
	// across calls (same underlying no-op provider until Init runs).
	m1 := Meter("")
	m2 := Meter("")
	if m1 == nil || m2 == nil {
		t.Fatal("expected non-nil meters")
	}
}
