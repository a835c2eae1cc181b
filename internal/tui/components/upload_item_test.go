package components_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rohanverma/upq/internal/engine"
	"github.com/rohanverma/upq/internal/status"
	"github.com/rohanverma/upq/internal/tui/components"
	"github.com/rohanverma/upq/internal/upload"
)

func testInfo(st status.Status, total, uploaded int64) engine.UploadInfo {
	pct := 0.0
	if total > 0 {
		pct = float64(uploaded) / float64(total) * 100
	}

	return engine.UploadInfo{
		ID:       uuid.New(),
		Filename: "holiday-photos.zip",
		Path:     "/home/user/holiday-photos.zip",
		Status:   st,
		Progress: upload.Progress{
			TotalSize:  total,
			Uploaded:   uploaded,
			Percentage: pct,
		},
	}
}

func TestUploadItem_Compact(t *testing.T) {
	item := components.UploadItem(testInfo(status.Uploading, 1000, 500), 80, false, false)

	if !strings.Contains(item, "holiday-photos.zip") {
		t.Error("compact item missing filename")
	}

	if !strings.Contains(item, "uploading") {
		t.Error("compact item missing status badge")
	}

	if !strings.Contains(item, "50.0%") {
		t.Error("compact item missing percentage")
	}

	if strings.Contains(item, "█") || strings.Contains(item, "░") {
		t.Error("compact item should not contain a progress bar")
	}
}

func TestUploadItem_Expanded(t *testing.T) {
	item := components.UploadItem(testInfo(status.Paused, 2000, 1000), 80, false, true)

	if !strings.Contains(item, "paused") {
		t.Error("expanded item missing status badge")
	}

	if !strings.Contains(item, "█") && !strings.Contains(item, "░") {
		t.Error("expanded item missing progress bar")
	}

	if !strings.Contains(item, "1.0 kB / 2.0 kB") {
		t.Errorf("expanded item missing size detail:\n%s", item)
	}
}

func TestUploadItem_FailedShowsError(t *testing.T) {
	info := testInfo(status.Failed, 1000, 100)
	info.Error = "server error (5xx)"

	item := components.UploadItem(info, 80, false, true)

	if !strings.Contains(item, "failed") {
		t.Error("failed item missing status badge")
	}

	if !strings.Contains(item, "server error (5xx)") {
		t.Error("failed item missing error message")
	}
}

func TestUploadItem_LongNameTruncated(t *testing.T) {
	info := testInfo(status.Queued, 100, 0)
	info.Filename = strings.Repeat("a", 60) + ".bin"

	item := components.UploadItem(info, 80, false, false)

	if strings.Contains(item, info.Filename) {
		t.Error("long filename should be truncated")
	}

	if !strings.Contains(item, "...") {
		t.Error("truncated filename missing ellipsis")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{-1, "Unknown"},
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 kB"},
		{1500, "1.5 kB"},
		{1000 * 1000, "1.0 MB"},
		{2_500_000_000, "2.5 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := components.FormatSize(tt.bytes); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := components.FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
