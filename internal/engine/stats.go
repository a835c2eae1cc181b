package engine

import (
	"fmt"
	"time"

	"github.com/rohanverma/upq/internal/status"
	"github.com/rohanverma/upq/internal/upload"
)

// Stats is the queue-wide aggregate over all non-removed uploads. It is
// recomputed from scratch on every read; nothing here is incrementally
// patched, so removals and multi-counter transitions can never drift.
type Stats struct {
	Total     int
	Queued    int
	Uploading int
	Paused    int
	Completed int
	Failed    int
	Cancelled int

	TotalBytes    int64
	UploadedBytes int64

	// AverageSpeed is the mean speed of tasks currently uploading, in
	// bytes/sec. Zero when nothing is uploading.
	AverageSpeed int64

	// ETA is remaining bytes over AverageSpeed; zero means unknown.
	ETA time.Duration

	MaxConcurrent int
}

// GetETA formats the estimate, reporting "unknown" when the average speed is
// zero rather than dividing by it.
func (s Stats) GetETA() string {
	if s.ETA == 0 {
		return "unknown"
	}

	hrs := int(s.ETA.Hours())
	mins := int(s.ETA.Minutes()) % 60
	secs := int(s.ETA.Seconds()) % 60

	switch {
	case hrs > 0:
		return fmt.Sprintf("%dh %dm %ds", hrs, mins, secs)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// aggregateStats derives Stats from the current worker set as a pure
// function. Pending uploads count as queued for display purposes.
func aggregateStats(workers []*upload.Worker, maxConcurrent int) Stats {
	stats := Stats{
		MaxConcurrent: maxConcurrent,
	}

	var speedSum int64

	for _, w := range workers {
		stats.Total++

		p := w.Progress()
		stats.TotalBytes += p.GetTotalSize()
		stats.UploadedBytes += p.GetUploaded()

		switch w.GetStatus() {
		case status.Pending, status.Queued:
			stats.Queued++
		case status.Uploading:
			stats.Uploading++
			speedSum += p.GetSpeedBPS()
		case status.Paused:
			stats.Paused++
		case status.Completed:
			stats.Completed++
		case status.Failed:
			stats.Failed++
		case status.Cancelled:
			stats.Cancelled++
		}
	}

	if stats.Uploading > 0 {
		stats.AverageSpeed = speedSum / int64(stats.Uploading)
	}

	if stats.AverageSpeed > 0 {
		remaining := stats.TotalBytes - stats.UploadedBytes
		if remaining > 0 {
			stats.ETA = time.Duration(float64(remaining)/float64(stats.AverageSpeed)) * time.Second
		}
	}

	return stats
}
