package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Listener is the registration handle returned by [EventBus.On] and
// [EventBus.OnNext]. Removal is handle-based because function values are
// not comparable.
type Listener[T any] struct {
	callback func(T)
}

// EventBus delivers named events to registered listeners. Persistent
// listeners fire on every dispatch of their event name; one-shot listeners
// fire once and are removed as part of the dispatch that fired them.
//
// Dispatch is synchronous and ordered: listeners run one after another, in
// registration order, persistent ones before one-shot ones. A panicking
// listener is recovered and logged without disturbing its siblings.
type EventBus[T any] struct {
	mu            sync.Mutex
	listeners     map[string][]*Listener[T]
	nextListeners map[string][]*Listener[T]
}

// NewEventBus returns an empty bus.
func NewEventBus[T any]() *EventBus[T] {
	return &EventBus[T]{
		listeners:     map[string][]*Listener[T]{},
		nextListeners: map[string][]*Listener[T]{},
	}
}

// On registers a persistent listener for eventName and returns its handle.
func (b *EventBus[T]) On(eventName string, callback func(T)) *Listener[T] {
	listener := &Listener[T]{callback: callback}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
	return listener
}

// OnNext registers a listener that is removed after it fires once for
// eventName and returns its handle.
func (b *EventBus[T]) OnNext(eventName string, callback func(T)) *Listener[T] {
	listener := &Listener[T]{callback: callback}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextListeners[eventName] = append(b.nextListeners[eventName], listener)
	return listener
}

// Off removes specific persistent listeners for eventName, or every
// persistent listener for it when none are given. Removing a listener that
// is not registered is a no-op, so teardown paths stay idempotent.
func (b *EventBus[T]) Off(eventName string, listeners ...*Listener[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = removeListeners(b.listeners[eventName], listeners)
	if len(b.listeners[eventName]) == 0 {
		delete(b.listeners, eventName)
	}
}

// OffNext is [EventBus.Off] for one-shot listeners.
func (b *EventBus[T]) OffNext(eventName string, listeners ...*Listener[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextListeners[eventName] = removeListeners(b.nextListeners[eventName], listeners)
	if len(b.nextListeners[eventName]) == 0 {
		delete(b.nextListeners, eventName)
	}
}

func removeListeners[T any](registered []*Listener[T], toRemove []*Listener[T]) []*Listener[T] {
	if len(toRemove) == 0 {
		return nil
	}

	kept := registered[:0:0]
	for _, listener := range registered {
		remove := false
		for _, candidate := range toRemove {
			if listener == candidate {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, listener)
		}
	}
	return kept
}

// WaitForNext blocks until eventName is dispatched, the timeout elapses,
// or ctx is done. The second return reports whether a payload arrived.
// Whichever path wins, the transient listener is deregistered exactly once.
//
// A timeout of zero or less waits indefinitely (subject to ctx).
func (b *EventBus[T]) WaitForNext(ctx context.Context, eventName string, timeout time.Duration) (T, bool) {
	payloads := make(chan T, 1)
	listener := b.OnNext(eventName, func(payload T) {
		payloads <- payload
	})

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	var zero T
	select {
	case payload := <-payloads:
		return payload, true
	case <-deadline:
		b.OffNext(eventName, listener)
		return zero, false
	case <-ctx.Done():
		b.OffNext(eventName, listener)
		return zero, false
	}
}

// Dispatch delivers payload to the current snapshot of persistent
// listeners for eventName, then to the one-shot snapshot, and clears the
// one-shot registry for that name. It returns once every listener has run;
// work a listener hands off to a goroutine is not awaited.
func (b *EventBus[T]) Dispatch(eventName string, payload T) {
	b.mu.Lock()
	persistent := append([]*Listener[T](nil), b.listeners[eventName]...)
	oneShot := append([]*Listener[T](nil), b.nextListeners[eventName]...)
	delete(b.nextListeners, eventName)
	b.mu.Unlock()

	dispatchedEvents.Add(context.Background(), 1)

	for _, listener := range persistent {
		b.invoke(eventName, listener, payload)
	}
	for _, listener := range oneShot {
		b.invoke(eventName, listener, payload)
	}

	// One-shots registered by a listener during this dispatch are wiped
	// with the rest of the name's one-shot registry.
	b.mu.Lock()
	delete(b.nextListeners, eventName)
	b.mu.Unlock()
}

func (b *EventBus[T]) invoke(eventName string, listener *Listener[T], payload T) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("event listener panicked",
				"event", eventName,
				"error", fmt.Sprintf("%v", recovered))
		}
	}()

	listener.callback(payload)
}

// ClearEventHandlers removes every listener, persistent and one-shot, for
// every event name.
func (b *EventBus[T]) ClearEventHandlers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = map[string][]*Listener[T]{}
	b.nextListeners = map[string][]*Listener[T]{}
}
