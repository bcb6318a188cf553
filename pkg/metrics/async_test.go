package metrics

import (
	"sync"
	"testing"
	"time"
)

type slowObserver struct {
	mu    sync.Mutex
	seen  int
	block chan struct{}
}

func (s *slowObserver) RecordEvent(Event) {
	<-s.block
	s.mu.Lock()
	s.seen++
	s.mu.Unlock()
}

func TestAsyncObserverCountsDropped(t *testing.T) {
	inner := &slowObserver{block: make(chan struct{})}
	a := NewAsyncObserver(inner, 1)
	defer close(inner.block)
	defer a.Close()

	// One event sits in flight, one fills the buffer, the rest drop.
	for i := 0; i < 10; i++ {
		a.RecordEvent(Event{Name: "stt_request"})
	}
	if a.Dropped() == 0 {
		t.Fatalf("expected dropped events with a full buffer")
	}
}

func TestAsyncObserverRecordAfterClose(t *testing.T) {
	a := NewAsyncObserver(NoopObserver{}, 4)
	a.Close()
	a.Close()
	// Must be a silent no-op, never a send on a closed channel.
	a.RecordEvent(Event{Name: "stt_request"})
}

func TestAsyncObserverConcurrentRecordAndClose(t *testing.T) {
	a := NewAsyncObserver(NoopObserver{}, 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.RecordEvent(Event{Name: "stt_request"})
			}
		}()
	}
	time.Sleep(time.Millisecond)
	a.Close()
	wg.Wait()
}

func TestMemoryObserverSnapshot(t *testing.T) {
	m := NewMemoryObserver()
	m.RecordEvent(Event{Name: "stt_request", Value: 0.5})
	evs := m.Events()
	if len(evs) != 1 || evs[0].Name != "stt_request" {
		t.Fatalf("unexpected events %v", evs)
	}
}
