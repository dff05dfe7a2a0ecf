package realtime

import (
	"context"
	"testing"
	"time"
)

func TestDispatchPreservesRegistrationOrder(t *testing.T) {
	bus := NewEventBus[string]()
	var order []string

	bus.On("greeting", func(string) { order = append(order, "first") })
	bus.On("greeting", func(string) { order = append(order, "second") })
	bus.On("greeting", func(string) { order = append(order, "third") })

	bus.Dispatch("greeting", "hi")

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("expected listeners in registration order, got %v", order)
	}
}

func TestPersistentListenersRunBeforeOneShotListeners(t *testing.T) {
	bus := NewEventBus[string]()
	var order []string

	bus.OnNext("greeting", func(string) { order = append(order, "one-shot") })
	bus.On("greeting", func(string) { order = append(order, "persistent") })

	bus.Dispatch("greeting", "hi")

	if len(order) != 2 || order[0] != "persistent" || order[1] != "one-shot" {
		t.Fatalf("expected persistent before one-shot regardless of registration order, got %v", order)
	}
}

func TestOneShotListenersFireExactlyOnce(t *testing.T) {
	bus := NewEventBus[string]()
	fired := 0

	bus.OnNext("greeting", func(string) { fired++ })

	bus.Dispatch("greeting", "hi")
	bus.Dispatch("greeting", "hi again")

	if fired != 1 {
		t.Fatalf("expected one-shot listener to fire once, fired %d times", fired)
	}
}

func TestOneShotRegisteredDuringDispatchNeverFires(t *testing.T) {
	bus := NewEventBus[string]()
	fired := 0

	bus.On("greeting", func(string) {
		bus.OnNext("greeting", func(string) { fired++ })
	})

	bus.Dispatch("greeting", "hi")
	bus.Dispatch("greeting", "hi again")

	if fired != 0 {
		t.Fatalf("expected one-shot registered mid-dispatch to be wiped, fired %d times", fired)
	}
}

func TestOffRemovesSpecificListener(t *testing.T) {
	bus := NewEventBus[string]()
	var order []string

	keep := bus.On("greeting", func(string) { order = append(order, "keep") })
	drop := bus.On("greeting", func(string) { order = append(order, "drop") })

	bus.Off("greeting", drop)
	bus.Dispatch("greeting", "hi")

	if len(order) != 1 || order[0] != "keep" {
		t.Fatalf("expected only the kept listener to fire, got %v", order)
	}

	// Removing an already removed listener is a silent no-op.
	bus.Off("greeting", drop)
	bus.Off("greeting", keep)
	bus.Dispatch("greeting", "hi")
	if len(order) != 1 {
		t.Fatalf("expected no further listener runs after removal, got %v", order)
	}
}

func TestOffWithoutListenersClearsTheEventName(t *testing.T) {
	bus := NewEventBus[int]()
	fired := 0

	bus.On("tick", func(int) { fired++ })
	bus.On("tick", func(int) { fired++ })
	bus.On("tock", func(int) { fired++ })

	bus.Off("tick")
	bus.Dispatch("tick", 1)
	bus.Dispatch("tock", 1)

	if fired != 1 {
		t.Fatalf("expected only the unaffected event to fire, got %d runs", fired)
	}
}

func TestPanickingListenerDoesNotInterruptDelivery(t *testing.T) {
	bus := NewEventBus[string]()
	delivered := false

	bus.On("greeting", func(string) { panic("listener failure") })
	bus.On("greeting", func(string) { delivered = true })

	bus.Dispatch("greeting", "hi")

	if !delivered {
		t.Fatal("expected delivery to continue past a panicking listener")
	}
}

func TestWaitForNextResolvesWithDispatchedPayload(t *testing.T) {
	bus := NewEventBus[string]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		bus.Dispatch("greeting", "hello")
	}()

	payload, ok := bus.WaitForNext(context.Background(), "greeting", time.Second)
	if !ok {
		t.Fatal("expected a payload before the deadline")
	}
	if payload != "hello" {
		t.Fatalf("expected payload %q, got %q", "hello", payload)
	}
}

func TestWaitForNextTimesOutWithoutDispatch(t *testing.T) {
	bus := NewEventBus[string]()

	start := time.Now()
	payload, ok := bus.WaitForNext(context.Background(), "greeting", 50*time.Millisecond)
	if ok {
		t.Fatalf("expected a timeout, got payload %q", payload)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("expected the wait to last the timeout, returned after %v", elapsed)
	}

	// The transient listener must not leak into later dispatches.
	bus.Dispatch("greeting", "late")
}

func TestWaitForNextHonorsContextCancellation(t *testing.T) {
	bus := NewEventBus[string]()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if _, ok := bus.WaitForNext(ctx, "greeting", time.Second); ok {
		t.Fatal("expected cancellation to end the wait without a payload")
	}
}

func TestClearEventHandlersRemovesEverything(t *testing.T) {
	bus := NewEventBus[string]()
	fired := 0

	bus.On("greeting", func(string) { fired++ })
	bus.OnNext("greeting", func(string) { fired++ })
	bus.On("farewell", func(string) { fired++ })

	bus.ClearEventHandlers()
	bus.Dispatch("greeting", "hi")
	bus.Dispatch("farewell", "bye")

	if fired != 0 {
		t.Fatalf("expected no listeners after clearing, got %d runs", fired)
	}
}
