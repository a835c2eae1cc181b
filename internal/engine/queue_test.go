package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestQueueProcessor_FIFOAndBlocking(t *testing.T) {
	startCh := make(chan uuid.UUID, 10)

	var doneMu sync.Mutex
	completeSignals := make(map[uuid.UUID]chan struct{})

	startFn := func(id uuid.UUID) error {
		startCh <- id

		doneMu.Lock()
		done := make(chan struct{})
		completeSignals[id] = done
		doneMu.Unlock()

		<-done
		return nil
	}

	qp := newQueueProcessor(1, startFn)

	first := uuid.New()
	qp.Enqueue(first)

	var firstStarted uuid.UUID
	select {
	case firstStarted = <-startCh:
		if firstStarted != first {
			t.Fatalf("Expected first upload to be %v, got %v", first, firstStarted)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("First upload didn't start in time")
	}

	second := uuid.New()
	qp.Enqueue(second)

	select {
	case unexpected := <-startCh:
		t.Fatalf("Unexpected upload started before first completed: %v", unexpected)
	case <-time.After(50 * time.Millisecond):
	}

	if got := qp.QueuedCount(); got != 1 {
		t.Fatalf("QueuedCount() = %d, want 1", got)
	}

	doneMu.Lock()
	close(completeSignals[firstStarted])
	delete(completeSignals, firstStarted)
	doneMu.Unlock()

	select {
	case secondStarted := <-startCh:
		if secondStarted != second {
			t.Fatalf("Expected next queued upload %v to start, got %v", second, secondStarted)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Second upload didn't start after first completed")
	}

	doneMu.Lock()
	for id, ch := range completeSignals {
		close(ch)
		delete(completeSignals, id)
	}
	doneMu.Unlock()
}

func TestQueueProcessor_ConcurrencyCap(t *testing.T) {
	startCh := make(chan uuid.UUID, 10)

	var doneMu sync.Mutex
	completeSignals := make(map[uuid.UUID]chan struct{})

	startFn := func(id uuid.UUID) error {
		startCh <- id

		doneMu.Lock()
		done := make(chan struct{})
		completeSignals[id] = done
		doneMu.Unlock()

		<-done
		return nil
	}

	qp := newQueueProcessor(2, startFn)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		qp.Enqueue(id)
	}

	started := make(map[uuid.UUID]bool)

	for i := 0; i < 2; i++ {
		select {
		case id := <-startCh:
			started[id] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Only %d uploads started, want 2", i)
		}
	}

	if !started[ids[0]] || !started[ids[1]] {
		t.Fatalf("First two enqueued uploads should be active, got %v", started)
	}

	select {
	case unexpected := <-startCh:
		t.Fatalf("Third upload started over the cap: %v", unexpected)
	case <-time.After(50 * time.Millisecond):
	}

	if got := qp.ActiveCount(); got != 2 {
		t.Fatalf("ActiveCount() = %d, want 2", got)
	}

	doneMu.Lock()
	close(completeSignals[ids[0]])
	delete(completeSignals, ids[0])
	doneMu.Unlock()

	select {
	case third := <-startCh:
		if third != ids[2] {
			t.Fatalf("Expected %v to be admitted, got %v", ids[2], third)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Third upload wasn't admitted after a slot freed")
	}

	doneMu.Lock()
	for id, ch := range completeSignals {
		close(ch)
		delete(completeSignals, id)
	}
	doneMu.Unlock()
}

func TestQueueProcessor_Dequeue(t *testing.T) {
	startCh := make(chan uuid.UUID, 10)
	block := make(chan struct{})

	startFn := func(id uuid.UUID) error {
		startCh <- id
		<-block
		return nil
	}

	qp := newQueueProcessor(1, startFn)

	active := uuid.New()
	waiting := uuid.New()

	qp.Enqueue(active)

	select {
	case <-startCh:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("First upload didn't start")
	}

	qp.Enqueue(waiting)
	qp.Dequeue(waiting)

	if got := qp.QueuedCount(); got != 0 {
		t.Fatalf("QueuedCount() after Dequeue = %d, want 0", got)
	}

	close(block)

	select {
	case unexpected := <-startCh:
		t.Fatalf("Dequeued upload was still admitted: %v", unexpected)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestQueueProcessor_InvalidCapDefaultsToOne(t *testing.T) {
	qp := newQueueProcessor(0, func(uuid.UUID) error { return nil })

	if qp.maxConcurrent != 1 {
		t.Fatalf("maxConcurrent = %d, want 1", qp.maxConcurrent)
	}
}
