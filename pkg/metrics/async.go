package metrics

import (
	"sync"
	"sync/atomic"
)

// AsyncObserver decouples recording from the hot path. Events are dropped,
// not blocked on, when the buffer is full.
type AsyncObserver struct {
	inner   Observer
	mu      sync.RWMutex
	ch      chan Event
	closed  bool
	dropped int64
}

func NewAsyncObserver(inner Observer, buffer int) *AsyncObserver {
	if buffer <= 0 {
		buffer = 256
	}
	a := &AsyncObserver{
		inner: inner,
		ch:    make(chan Event, buffer),
	}
	go a.loop()
	return a
}

// RecordEvent is safe to call concurrently with Close; events recorded
// after shutdown are discarded.
func (a *AsyncObserver) RecordEvent(ev Event) {
	if a == nil {
		return
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}
	select {
	case a.ch <- ev:
	default:
		atomic.AddInt64(&a.dropped, 1)
	}
}

// Dropped reports how many events were discarded because the buffer was
// full when they arrived.
func (a *AsyncObserver) Dropped() int64 {
	return atomic.LoadInt64(&a.dropped)
}

func (a *AsyncObserver) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	close(a.ch)
}

func (a *AsyncObserver) loop() {
	for ev := range a.ch {
		a.inner.RecordEvent(ev)
	}
}
