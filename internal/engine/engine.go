package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rohanverma/upq/internal/config"
	"github.com/rohanverma/upq/internal/logger"
	"github.com/rohanverma/upq/internal/repository"
	"github.com/rohanverma/upq/internal/status"
	"github.com/rohanverma/upq/internal/upload"
)

var (
	// ErrUploadNotFound is returned when an upload cannot be found.
	ErrUploadNotFound = errors.New("upload not found")

	// ErrUploadExists is returned when a file with a live task is added again.
	ErrUploadExists = errors.New("upload already exists")

	// ErrEngineNotRunning is returned when an operation requires the engine to be running.
	ErrEngineNotRunning = errors.New("engine is not running")

	// ErrUploadActive is returned when removing a task that still holds a slot.
	ErrUploadActive = errors.New("upload is active; cancel it before removing")
)

// Engine owns the collection of upload workers. All mutation flows through
// it; the view and the aggregator only ever read snapshots.
type Engine struct {
	mu sync.RWMutex

	uploads map[uuid.UUID]*upload.Worker
	order   []uuid.UUID

	repo      *repository.BboltRepository
	cfg       *config.Config
	queue     *queueProcessor
	autoStart bool

	errCh chan Error

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	running bool
}

// NewEngine creates an engine over the given store and configuration. When
// autoStart is false, added files stay Pending until UploadAll.
func NewEngine(repo *repository.BboltRepository, cfg *config.Config, autoStart bool) *Engine {
	return &Engine{
		uploads:   make(map[uuid.UUID]*upload.Worker),
		repo:      repo,
		cfg:       cfg,
		autoStart: autoStart,
		errCh:     make(chan Error, 16),
	}
}

// runTask runs a function in a goroutine tracked by the WaitGroup.
func (e *Engine) runTask(task func()) {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()
		task()
	}()
}

// Start restores persisted uploads and begins admitting queued tasks.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	e.ctx, e.cancelFunc = context.WithCancel(ctx)
	e.queue = newQueueProcessor(e.cfg.MaxConcurrentUploads, e.runUpload)

	if err := e.loadUploads(); err != nil {
		return fmt.Errorf("failed to load uploads: %w", err)
	}

	e.running = true

	return nil
}

// loadUploads rebuilds workers from the repository. Tasks that were in
// flight when the process died come back Paused. Caller must hold mu.
func (e *Engine) loadUploads() error {
	if e.repo == nil {
		return nil
	}

	uploads, err := e.repo.FindAll()
	if err != nil {
		return fmt.Errorf("failed to retrieve uploads: %w", err)
	}

	for _, u := range uploads {
		w := upload.RestoreWorker(u, e.saveFunc(), e.workerOptions()...)

		id := w.GetID()
		e.uploads[id] = w
		e.order = append(e.order, id)
	}

	logger.Infof("Loaded %d upload(s) from repository", len(e.uploads))

	return nil
}

func (e *Engine) workerOptions() []upload.ConfigOption {
	return []upload.ConfigOption{
		upload.WithEndpoint(e.cfg.Upload.Endpoint),
		upload.WithFieldName(e.cfg.Upload.FieldName),
		upload.WithTimeout(e.cfg.Upload.Timeout),
	}
}

func (e *Engine) saveFunc() upload.SaveFunc {
	if e.repo == nil {
		return nil
	}

	return e.repo.Save
}

// AddFiles creates one task per file. Each file gets exactly one task and a
// fresh ID; admission is immediate under autoStart, otherwise deferred until
// UploadAll.
func (e *Engine) AddFiles(ctx context.Context, paths []string, opts *upload.Options) ([]uuid.UUID, error) {
	if !e.isRunning() {
		return nil, ErrEngineNotRunning
	}

	if opts == nil {
		opts = upload.DefaultOptions()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := e.checkDuplicates(paths); err != nil {
		return nil, err
	}

	workers := make([]*upload.Worker, len(paths))

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			w, err := upload.NewWorker(path, opts, e.saveFunc(), e.workerOptions()...)
			if err != nil {
				return err
			}

			workers[i] = w

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// The batch is all-or-nothing: drop records persisted by workers that
		// were created before a sibling failed, or they come back as ghost
		// tasks on the next start.
		for _, w := range workers {
			if w == nil || e.repo == nil {
				continue
			}

			if derr := e.repo.Delete(w.GetID()); derr != nil && !errors.Is(derr, repository.ErrUploadNotFound) {
				logger.Warnf("Failed to drop record for %s: %v", w.GetID(), derr)
			}
		}

		return nil, err
	}

	ids := make([]uuid.UUID, len(workers))

	e.mu.Lock()
	for i, w := range workers {
		id := w.GetID()
		e.uploads[id] = w
		e.order = append(e.order, id)
		ids[i] = id
	}
	e.mu.Unlock()

	for _, w := range workers {
		u := w.GetUpload()

		if upload.HasThumbnailSupport(u.Path) {
			e.runTask(func() {
				if err := upload.GenerateThumbnail(u, e.cfg.Upload.ThumbnailDir); err != nil {
					logger.Warnf("Thumbnail generation failed: %v", err)
				}
			})
		}

		if e.autoStart {
			e.enqueue(w)
		}
	}

	return ids, nil
}

// checkDuplicates rejects a path that already has a live (non-terminal) task.
func (e *Engine) checkDuplicates(paths []string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, path := range paths {
		for _, w := range e.uploads {
			if w.GetUpload().Path == path && !status.IsTerminal(w.GetStatus()) {
				return fmt.Errorf("%w: %s", ErrUploadExists, path)
			}
		}
	}

	return nil
}

func (e *Engine) enqueue(w *upload.Worker) {
	w.Queue()
	e.queue.Enqueue(w.GetID())
}

// runUpload is the queue's start function. It blocks for the lifetime of one
// attempt so the slot stays held until a terminal or paused transition.
func (e *Engine) runUpload(id uuid.UUID) error {
	w, err := e.GetUpload(id)
	if err != nil {
		return err
	}

	// The task may have been cancelled or paused while waiting for a slot.
	if w.GetStatus() != status.Queued {
		return nil
	}

	for {
		err = w.Start(e.ctx)
		if err == nil {
			break
		}

		// A resumed or retried task can be re-admitted while the previous
		// attempt is still tearing down; wait it out and start again.
		if errors.Is(err, upload.ErrAlreadyStarted) {
			select {
			case <-e.ctx.Done():
				return e.ctx.Err()
			case <-time.After(10 * time.Millisecond):
			}

			continue
		}

		// Went terminal between admission and start. Nothing to run, but the
		// slot must still be released.
		if errors.Is(err, upload.ErrNotStartable) {
			return nil
		}

		return err
	}

	err = <-w.Done()
	if err != nil {
		select {
		case e.errCh <- Error{UploadID: id, Filename: w.GetFilename(), Error: err}:
		default:
		}
	}

	return err
}

// GetUpload retrieves a worker by ID.
func (e *Engine) GetUpload(id uuid.UUID) (*upload.Worker, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	w, ok := e.uploads[id]
	if !ok {
		return nil, ErrUploadNotFound
	}

	return w, nil
}

// GetAllUploads returns snapshots in insertion order.
func (e *Engine) GetAllUploads() []UploadInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	infos := make([]UploadInfo, 0, len(e.order))

	for _, id := range e.order {
		w, ok := e.uploads[id]
		if !ok {
			continue
		}

		u := w.GetUpload()

		infos = append(infos, UploadInfo{
			ID:        id,
			Filename:  w.GetFilename(),
			Path:      u.Path,
			Status:    w.GetStatus(),
			Progress:  w.Progress(),
			Error:     u.GetError(),
			Thumbnail: u.GetThumbnail(),
			AddedAt:   u.AddedAt,
		})
	}

	return infos
}

// Stats recomputes the queue-wide aggregate from the live worker set.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	workers := make([]*upload.Worker, 0, len(e.uploads))

	for _, w := range e.uploads {
		workers = append(workers, w)
	}
	e.mu.RUnlock()

	return aggregateStats(workers, e.cfg.MaxConcurrentUploads)
}

// GetErrors exposes per-task failures for the view.
func (e *Engine) GetErrors() <-chan Error {
	return e.errCh
}

// UploadAll admits every task that is still waiting to be queued.
func (e *Engine) UploadAll() error {
	if !e.isRunning() {
		return ErrEngineNotRunning
	}

	for _, w := range e.allWorkers() {
		if w.GetStatus() == status.Pending {
			e.enqueue(w)
		}
	}

	return nil
}

// Pause aborts an active transfer, keeping confirmed bytes. Queued tasks are
// not affected; they hold no slot.
func (e *Engine) Pause(id uuid.UUID) error {
	w, err := e.GetUpload(id)
	if err != nil {
		return err
	}

	return w.Pause()
}

// PauseAll pauses every active transfer.
func (e *Engine) PauseAll() {
	for _, w := range e.allWorkers() {
		if w.GetStatus() == status.Uploading {
			if err := w.Pause(); err != nil {
				logger.Warnf("Failed to pause upload %s: %v", w.GetID(), err)
			}
		}
	}
}

// Resume re-queues a paused upload. Admission is FIFO; it starts again once
// a slot frees up.
func (e *Engine) Resume(id uuid.UUID) error {
	w, err := e.GetUpload(id)
	if err != nil {
		return err
	}

	if w.GetStatus() != status.Paused {
		return nil
	}

	if err := w.Resume(); err != nil {
		return err
	}

	e.enqueue(w)

	return nil
}

// ResumeAll re-queues every paused upload in insertion order.
func (e *Engine) ResumeAll() {
	for _, w := range e.allWorkers() {
		if w.GetStatus() == status.Paused {
			if err := e.Resume(w.GetID()); err != nil {
				logger.Warnf("Failed to resume upload %s: %v", w.GetID(), err)
			}
		}
	}
}

// Cancel aborts a transfer for good. A queued task is dropped from the
// admission queue; an active one has its attempt context cancelled.
func (e *Engine) Cancel(id uuid.UUID) error {
	w, err := e.GetUpload(id)
	if err != nil {
		return err
	}

	e.queue.Dequeue(id)

	return w.Cancel()
}

// Retry re-admits a failed or cancelled upload as a fresh attempt under the
// same ID. Nothing retries automatically; this is always user-initiated.
func (e *Engine) Retry(id uuid.UUID) error {
	w, err := e.GetUpload(id)
	if err != nil {
		return err
	}

	if err := w.Retry(); err != nil {
		return err
	}

	e.enqueue(w)

	return nil
}

// Remove deletes a task from the queue. Active transfers must be cancelled
// first; this ordering is an invariant, not a convenience.
func (e *Engine) Remove(id uuid.UUID) error {
	if !e.isRunning() {
		return ErrEngineNotRunning
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.uploads[id]
	if !ok {
		return ErrUploadNotFound
	}

	if w.GetStatus() == status.Uploading {
		return ErrUploadActive
	}

	e.queue.Dequeue(id)

	if e.repo != nil {
		if err := e.repo.Delete(id); err != nil && !errors.Is(err, repository.ErrUploadNotFound) {
			return fmt.Errorf("failed to delete upload from repository: %w", err)
		}
	}

	e.deleteLocked(id)

	return nil
}

// ClearCompleted bulk-removes every completed task.
func (e *Engine) ClearCompleted() {
	for _, w := range e.allWorkers() {
		if w.GetStatus() == status.Completed {
			if err := e.Remove(w.GetID()); err != nil {
				logger.Warnf("Failed to remove upload %s: %v", w.GetID(), err)
			}
		}
	}
}

// ClearAll cancels any active transfers and then empties the queue.
func (e *Engine) ClearAll() {
	for _, w := range e.allWorkers() {
		id := w.GetID()

		e.queue.Dequeue(id)

		if err := w.Cancel(); err != nil {
			logger.Warnf("Failed to cancel upload %s: %v", id, err)
		}

		if err := e.Remove(id); err != nil {
			logger.Warnf("Failed to remove upload %s: %v", id, err)
		}
	}
}

// allWorkers snapshots the worker set in insertion order.
func (e *Engine) allWorkers() []*upload.Worker {
	e.mu.RLock()
	defer e.mu.RUnlock()

	workers := make([]*upload.Worker, 0, len(e.order))

	for _, id := range e.order {
		if w, ok := e.uploads[id]; ok {
			workers = append(workers, w)
		}
	}

	return workers
}

// deleteLocked removes the worker from the collection. Caller must hold mu.
func (e *Engine) deleteLocked(id uuid.UUID) {
	delete(e.uploads, id)

	for i, ordered := range e.order {
		if ordered == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

func (e *Engine) isRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.running
}

// Shutdown pauses active transfers so their confirmed bytes are persisted,
// then stops background work and closes the store.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}

	e.running = false
	e.mu.Unlock()

	logger.Infof("Starting engine shutdown...")

	e.PauseAll()
	e.cancelFunc()

	waitChan := make(chan struct{})

	go func() {
		e.wg.Wait()
		close(waitChan)
	}()

	select {
	case <-waitChan:
		logger.Infof("All tasks completed gracefully")
	case <-ctx.Done():
		logger.Warnf("Shutdown timed out, some tasks may not have completed")
	}

	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			logger.Errorf("Error closing repository: %v", err)
		}
	}

	// errCh stays open: a straggling attempt may still report a failure, and
	// a send to a closed channel would take the controller down with it.
	// Readers exit via their own context.

	logger.Infof("Engine shutdown complete")

	return nil
}

// Wait blocks until tracked background tasks have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// WaitIdle blocks until no upload holds a slot or the timeout elapses. Test
// and shutdown helper.
func (e *Engine) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if e.queue.ActiveCount() == 0 && e.queue.QueuedCount() == 0 {
			return true
		}

		time.Sleep(10 * time.Millisecond)
	}

	return false
}
