package upload

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rohanverma/upq/internal/logger"
	"github.com/rohanverma/upq/internal/progress"
	"github.com/rohanverma/upq/internal/status"
	httpPkg "github.com/rohanverma/upq/pkg/http"
)

var (
	ErrAlreadyStarted  = errors.New("upload already started")
	ErrNotStartable    = errors.New("upload is not in a startable state")
	ErrNoEndpoint      = errors.New("upload endpoint not configured")
	ErrInvalidEndpoint = errors.New("upload endpoint is not a valid http(s) URL")
	ErrNotRetryable    = errors.New("upload is not in a retryable state")

	errCancelledByUser = errors.New("cancelled by user")
)

// SaveFunc persists a snapshot of the upload record. Workers never talk to
// storage directly; the engine injects this so there is a single writer to
// the store.
type SaveFunc func(*Upload) error

// Worker drives one Upload through its lifecycle. A Start covers exactly one
// transfer attempt; retry and resume go back through the engine's queue and
// start a fresh attempt with the same ID and options.
type Worker struct {
	upload *Upload
	client *httpPkg.Client
	config *Config
	save   SaveFunc

	started atomic.Bool

	done     chan error
	cancel   context.CancelFunc
	cancelMu sync.Mutex

	progressMu   sync.RWMutex
	lastProgress Progress
}

// NewWorker validates the metadata and endpoint up front, registers the file
// and persists the initial record. Validation failures here mean the task
// never reaches the Uploading state.
func NewWorker(path string, opts *Options, save SaveFunc, cfgOpts ...ConfigOption) (*Worker, error) {
	cfg := defaultConfig()
	for _, opt := range cfgOpts {
		opt(cfg)
	}

	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	if !httpPkg.IsUploadEndpoint(cfg.Endpoint) {
		return nil, ErrInvalidEndpoint
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	u, err := NewUpload(path, opts)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		upload: u,
		client: httpPkg.NewClient(),
		config: cfg,
		save:   save,
		done:   make(chan error, 1),
	}

	w.persist()

	return w, nil
}

// RestoreWorker rebuilds a worker around a record loaded from storage. A task
// that was in flight or waiting when the process died comes back Paused; the
// user decides whether to resume it.
func RestoreWorker(u *Upload, save SaveFunc, cfgOpts ...ConfigOption) *Worker {
	cfg := defaultConfig()
	for _, opt := range cfgOpts {
		opt(cfg)
	}

	switch u.getStatus() {
	case status.Uploading, status.Queued, status.Pending:
		u.setStatus(status.Paused)
	}

	return &Worker{
		upload: u,
		client: httpPkg.NewClient(),
		config: cfg,
		save:   save,
		done:   make(chan error, 1),
	}
}

func (w *Worker) GetID() uuid.UUID {
	return w.upload.GetID()
}

func (w *Worker) GetStatus() status.Status {
	return w.upload.getStatus()
}

func (w *Worker) GetFilename() string {
	return w.upload.getFilename()
}

// GetUpload returns the underlying record (for engine use).
func (w *Worker) GetUpload() *Upload {
	return w.upload
}

// Queue marks the upload as waiting for admission.
func (w *Worker) Queue() {
	w.upload.setStatus(status.Queued)
}

func (w *Worker) Done() <-chan error {
	return w.done
}

// Start launches one transfer attempt. It reports ErrAlreadyStarted while a
// previous attempt is still tearing down, and ErrNotStartable when the upload
// has already reached a terminal state.
func (w *Worker) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s := w.upload.getStatus()
	if status.IsTerminal(s) {
		w.started.Store(false)
		return ErrNotStartable
	}

	w.upload.setStatus(status.Uploading)
	w.upload.setStartTime(time.Now())
	w.upload.setError("")

	runCtx, cancel := context.WithCancel(ctx)
	w.setCancel(cancel)

	go w.saveState(runCtx)
	go w.trackProgress(runCtx)
	go w.processUpload(runCtx)

	return nil
}

// Pause aborts the in-flight transfer and keeps Uploaded at the last
// confirmed value. Queued tasks are untouched; they hold no slot.
func (w *Worker) Pause() error {
	if w.upload.getStatus() != status.Uploading {
		return nil
	}

	w.stop(status.Paused, "")

	return nil
}

// Resume moves a paused upload back toward admission. The transfer restarts
// from the beginning once a slot is free; there is no byte-range resume.
func (w *Worker) Resume() error {
	if w.upload.getStatus() != status.Paused {
		return nil
	}

	w.upload.setStatus(status.Pending)

	return nil
}

// Cancel is terminal. Uploaded stays frozen at the last confirmed value and
// no further progress events are applied.
func (w *Worker) Cancel() error {
	s := w.upload.getStatus()
	if s == status.Completed || s == status.Cancelled {
		return nil
	}

	w.stop(status.Cancelled, errCancelledByUser.Error())

	return nil
}

// Retry re-arms a failed or cancelled upload as a fresh attempt: progress
// zeroed, same ID, same file, same options.
func (w *Worker) Retry() error {
	s := w.upload.getStatus()
	if s != status.Failed && s != status.Cancelled {
		return ErrNotRetryable
	}

	w.upload.setUploaded(0)
	w.upload.setError("")
	w.upload.setStatus(status.Pending)
	w.persist()

	return nil
}

// Progress returns a consistent snapshot: speed and ETA are only reported
// while the transfer is live, and percentage always agrees with status.
func (w *Worker) Progress() progress.Progress {
	s := w.upload.getStatus()
	uploaded := w.upload.getUploaded()
	total := w.upload.getTotalSize()

	pct := 0.0
	if total > 0 {
		pct = float64(uploaded) / float64(total) * 100
	}

	if s == status.Completed {
		pct = 100
	}

	var (
		speed int64
		eta   time.Duration
	)

	if s == status.Uploading {
		w.progressMu.RLock()
		speed = w.lastProgress.SpeedBPS
		eta = w.lastProgress.ETA
		w.progressMu.RUnlock()
	}

	return Progress{
		TotalSize:  total,
		Uploaded:   uploaded,
		Percentage: pct,
		SpeedBPS:   speed,
		ETA:        eta,
	}
}

func (w *Worker) setCancel(cancel context.CancelFunc) {
	w.cancelMu.Lock()
	defer w.cancelMu.Unlock()

	w.cancel = cancel
}

func (w *Worker) getCancel() context.CancelFunc {
	w.cancelMu.Lock()
	defer w.cancelMu.Unlock()

	return w.cancel
}

// stop sets the target state before cancelling the attempt context, so the
// transfer goroutine observes the final status and the progress guard starts
// discarding stale events immediately.
func (w *Worker) stop(target status.Status, errMsg string) {
	w.upload.setStatus(target)

	if errMsg != "" {
		w.upload.setError(errMsg)
	}

	if cancel := w.getCancel(); cancel != nil {
		cancel()
	}

	w.persist()
}

func (w *Worker) processUpload(ctx context.Context) {
	file, err := os.Open(w.upload.getPath())
	if err != nil {
		w.fail(err)
		return
	}

	defer func() {
		if err := file.Close(); err != nil {
			logger.Warnf("Failed to close %s: %v", w.upload.getPath(), err)
		}
	}()

	// Bytes confirmed for this attempt only. The counter is rewritten rather
	// than patched so a restarted attempt recounts from zero without ever
	// double-counting a previous attempt's bytes.
	var sent int64

	reader := newCountingReader(file, func(n int64) {
		if ctx.Err() != nil {
			return
		}

		if w.upload.getStatus() != status.Uploading {
			return
		}

		sent += n

		total := w.upload.getTotalSize()
		if sent > total {
			sent = total
		}

		w.upload.setUploaded(sent)
	})

	uploadCtx := ctx

	if w.config.Timeout > 0 {
		var cancel context.CancelFunc

		uploadCtx, cancel = context.WithTimeout(ctx, w.config.Timeout)
		defer cancel()
	}

	err = w.client.Upload(
		uploadCtx,
		w.config.Endpoint,
		w.config.FieldName,
		w.upload.getFilename(),
		w.upload.getOptions().formFields(),
		reader,
	)

	switch {
	case err == nil:
		w.upload.setUploaded(w.upload.getTotalSize())
		w.upload.setStatus(status.Completed)
		w.upload.setEndTime(time.Now())
		w.finish(nil)

	case errors.Is(err, context.Canceled):
		// Pause or Cancel already set the final state and froze the counter.
		w.finish(nil)

	default:
		w.fail(err)
	}
}

func (w *Worker) fail(err error) {
	logger.Errorf("Upload %s failed: %v", w.upload.GetID(), err)

	w.upload.setStatus(status.Failed)
	w.upload.setError(err.Error())
	w.upload.setEndTime(time.Now())
	w.finish(err)
}

// finish tears down the attempt. The done value is sent before started is
// cleared so the admission that launched this attempt always receives it; a
// re-admission can only pass the Start CAS afterwards, and then only sees its
// own attempt's value.
func (w *Worker) finish(err error) {
	if cancel := w.getCancel(); cancel != nil {
		cancel()
	}

	w.persist()

	w.done <- err
	w.started.Store(false)
}

func (w *Worker) persist() {
	if w.save == nil {
		return
	}

	if err := w.save(w.upload); err != nil {
		logger.Errorf("Failed to save upload %s: %v", w.upload.GetID(), err)
	}
}

func (w *Worker) saveState(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.persist()
		}
	}
}

// trackProgress periodically updates lastProgress with a smoothed speed/ETA.
func (w *Worker) trackProgress(ctx context.Context) {
	const (
		tickInterval    = 500 * time.Millisecond
		smoothingWindow = 5 * time.Second
	)

	type sample struct {
		t     time.Time
		bytes int64
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var history []sample

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			uploaded := w.upload.getUploaded()

			now := time.Now()
			history = append(history, sample{t: now, bytes: uploaded})

			cutoff := now.Add(-smoothingWindow)
			for len(history) > 0 && history[0].t.Before(cutoff) {
				history = history[1:]
			}

			var speedBPS int64

			if len(history) >= 2 {
				oldest := history[0]

				elapsed := now.Sub(oldest.t).Seconds()
				if elapsed > 0 {
					speedBPS = int64(float64(uploaded-oldest.bytes) / elapsed)
				}

				if speedBPS < 0 {
					speedBPS = 0
				}
			}

			totalSize := w.upload.getTotalSize()

			var eta time.Duration

			if speedBPS > 0 && totalSize > 0 {
				remaining := totalSize - uploaded
				if remaining > 0 {
					eta = time.Duration(float64(remaining)/float64(speedBPS)) * time.Second
				}
			}

			w.progressMu.Lock()
			w.lastProgress = Progress{
				TotalSize: totalSize,
				Uploaded:  uploaded,
				SpeedBPS:  speedBPS,
				ETA:       eta,
			}
			w.progressMu.Unlock()
		}
	}
}
