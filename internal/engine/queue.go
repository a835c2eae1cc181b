package engine

import (
	"sync"

	"github.com/google/uuid"
)

// queueProcessor admits uploads in FIFO order under a fixed concurrency cap.
// startFn blocks for the lifetime of one attempt; when it returns the slot is
// freed and the next queued upload is admitted.
type queueProcessor struct {
	maxConcurrent int

	mu     sync.Mutex
	queued []uuid.UUID
	active map[uuid.UUID]struct{}

	startFn func(uuid.UUID) error
}

func newQueueProcessor(maxConcurrent int, startFn func(uuid.UUID) error) *queueProcessor {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &queueProcessor{
		maxConcurrent: maxConcurrent,
		queued:        make([]uuid.UUID, 0),
		active:        make(map[uuid.UUID]struct{}),
		startFn:       startFn,
	}
}

// Enqueue appends an upload to the admission queue and fills free slots.
func (q *queueProcessor) Enqueue(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queued = append(q.queued, id)
	q.fillAvailableSlots()
}

// Dequeue drops a waiting upload from the admission queue. Uploads that are
// already active are unaffected.
func (q *queueProcessor) Dequeue(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, queued := range q.queued {
		if queued == id {
			q.queued = append(q.queued[:i], q.queued[i+1:]...)
			return
		}
	}
}

// ActiveCount returns the number of uploads currently holding a slot.
func (q *queueProcessor) ActiveCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.active)
}

// QueuedCount returns the number of uploads waiting for admission.
func (q *queueProcessor) QueuedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.queued)
}

// fillAvailableSlots starts uploads while slots are free. Caller must hold mu.
func (q *queueProcessor) fillAvailableSlots() {
	for len(q.active) < q.maxConcurrent && len(q.queued) > 0 {
		id := q.queued[0]
		q.queued = q.queued[1:]
		q.active[id] = struct{}{}

		go func(id uuid.UUID) {
			_ = q.startFn(id)
			q.handleCompletion(id)
		}(id)
	}
}

// handleCompletion frees the slot and admits the next queued upload.
func (q *queueProcessor) handleCompletion(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.active, id)
	q.fillAvailableSlots()
}
