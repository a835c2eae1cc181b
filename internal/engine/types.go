package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohanverma/upq/internal/progress"
	"github.com/rohanverma/upq/internal/status"
)

// UploadInfo is a read-only snapshot handed to the view. The view never
// holds a reference to the live worker.
type UploadInfo struct {
	ID        uuid.UUID
	Filename  string
	Path      string
	Status    status.Status
	Progress  progress.Progress
	Error     string
	Thumbnail string
	AddedAt   time.Time
}

// Error pairs a task failure with the upload it belongs to. Failures are
// surfaced per task and never abort siblings.
type Error struct {
	UploadID uuid.UUID
	Filename string
	Error    error
}
