package audit

import (
	"testing"
	"time"
)

func event(kind string) Event {
	return Event{
		Kind:    kind,
		Actor:   "alice",
		Subject: "bob",
		Time:    time.Now().UTC(),
	}
}

func TestMemoryLogAppend(t *testing.T) {
	memoryLog := NewMemoryLog()
	memoryLog.Append(event(KindFollow))
	memoryLog.Append(event(KindBlock))

	events := memoryLog.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != KindFollow || events[1].Kind != KindBlock {
		t.Errorf("events = %v, want follow then block", events)
	}

	// Events() hands out a copy
	events[0].Kind = "tampered"
	if memoryLog.Events()[0].Kind != KindFollow {
		t.Error("mutating the returned slice changed the log")
	}
}

func TestMultiLogFansOut(t *testing.T) {
	first := NewMemoryLog()
	second := NewMemoryLog()

	MultiLog{first, second}.Append(event(KindUnfollow))

	if len(first.Events()) != 1 || len(second.Events()) != 1 {
		t.Errorf("sinks got %d and %d events, want 1 each", len(first.Events()), len(second.Events()))
	}
}

func TestStreamDelivery(t *testing.T) {
	stream := NewStream(4)
	events, cancel := stream.Subscribe()
	defer cancel()

	stream.Append(event(KindFollow))

	select {
	case received := <-events:
		if received.Kind != KindFollow {
			t.Errorf("received %q, want follow", received.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestStreamDropsWhenSubscriberFull(t *testing.T) {
	stream := NewStream(1)
	events, cancel := stream.Subscribe()
	defer cancel()

	stream.Append(event(KindFollow))
	stream.Append(event(KindUnfollow)) // buffer full, dropped

	if received := <-events; received.Kind != KindFollow {
		t.Errorf("received %q, want follow", received.Kind)
	}
	select {
	case received := <-events:
		t.Errorf("received unexpected event %q", received.Kind)
	default:
	}
}

func TestStreamCancelClosesChannel(t *testing.T) {
	stream := NewStream(1)
	events, cancel := stream.Subscribe()

	cancel()
	cancel() // idempotent

	if _, open := <-events; open {
		t.Error("channel still open after cancel")
	}

	// Appending after cancel must not panic
	stream.Append(event(KindFollow))
}
