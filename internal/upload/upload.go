package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rohanverma/upq/internal/status"
)

var (
	ErrNotRegularFile = errors.New("not a regular file")
	ErrEmptyPath      = errors.New("file path is empty")
)

// Upload is the record for one file's transfer. TotalSize is fixed at
// creation; Uploaded and Status are accessed atomically so the progress
// tracker and the engine never observe a torn value.
type Upload struct {
	mu        sync.RWMutex
	Id        uuid.UUID     `json:"id"`
	Path      string        `json:"path"`
	Filename  string        `json:"filename"`
	TotalSize int64         `json:"totalSize"`
	Uploaded  int64         `json:"uploaded"`
	Status    status.Status `json:"status"`
	StartTime time.Time     `json:"startTime,omitempty"`
	EndTime   time.Time     `json:"endTime,omitempty"`
	Error     string        `json:"error,omitempty"`
	Thumbnail string        `json:"thumbnail,omitempty"`
	Options   *Options      `json:"options,omitempty"`
	AddedAt   time.Time     `json:"addedAt"`
}

// NewUpload registers a local file for transfer. The file must exist so its
// size can be fixed up front.
func NewUpload(path string, opts *Options) (*Upload, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	return &Upload{
		Id:        uuid.New(),
		Path:      path,
		Filename:  filepath.Base(path),
		TotalSize: info.Size(),
		Status:    status.Pending,
		Options:   opts,
		AddedAt:   time.Now(),
	}, nil
}

func (u *Upload) GetID() uuid.UUID {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.Id
}

func (u *Upload) MarshalJSON() ([]byte, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	type Alias Upload

	return json.Marshal(&struct {
		*Alias

		Status   int32 `json:"status"`
		Uploaded int64 `json:"uploaded"`
	}{
		Status:   u.getStatus(),
		Uploaded: atomic.LoadInt64(&u.Uploaded),
		Alias:    (*Alias)(u),
	})
}

func (u *Upload) getStatus() status.Status {
	return atomic.LoadInt32(&u.Status)
}

func (u *Upload) setStatus(s status.Status) {
	atomic.StoreInt32(&u.Status, s)
}

func (u *Upload) getUploaded() int64 {
	return atomic.LoadInt64(&u.Uploaded)
}

func (u *Upload) setUploaded(n int64) {
	atomic.StoreInt64(&u.Uploaded, n)
}

func (u *Upload) getTotalSize() int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.TotalSize
}

func (u *Upload) getPath() string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.Path
}

func (u *Upload) getFilename() string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.Filename
}

// GetFilename returns the base name of the payload file.
func (u *Upload) GetFilename() string {
	return u.getFilename()
}

func (u *Upload) getOptions() *Options {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.Options
}

func (u *Upload) setStartTime(t time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.StartTime = t
}

func (u *Upload) setEndTime(t time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.EndTime = t
}

func (u *Upload) setError(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.Error = msg
}

// GetError returns the human-readable cause of the last failure, empty
// outside the Failed and Cancelled states.
func (u *Upload) GetError() string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.Error
}

// SetThumbnail records the preview path. Generated asynchronously, so it may
// land in any transfer state.
func (u *Upload) SetThumbnail(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.Thumbnail = path
}

func (u *Upload) GetThumbnail() string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.Thumbnail
}

func (u *Upload) getAddedAt() time.Time {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.AddedAt
}
