package upload_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rohanverma/upq/internal/upload"
)

func TestProgressGetters(t *testing.T) {
	p := upload.Progress{
		TotalSize:  1000,
		Uploaded:   250,
		Percentage: 25,
		SpeedBPS:   500,
		ETA:        90 * time.Second,
	}

	assert.Equal(t, int64(1000), p.GetTotalSize())
	assert.Equal(t, int64(250), p.GetUploaded())
	assert.Equal(t, float64(25), p.GetPercentage())
	assert.Equal(t, int64(500), p.GetSpeedBPS())
}

func TestProgressGetETA(t *testing.T) {
	tests := []struct {
		name string
		eta  time.Duration
		want string
	}{
		{"no estimate", 0, "unknown"},
		{"seconds", 9 * time.Second, "9s"},
		{"minutes", 2*time.Minute + 30*time.Second, "2m 30s"},
		{"hours", time.Hour + 1*time.Minute + 5*time.Second, "1h 1m 5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := upload.Progress{ETA: tt.eta}
			assert.Equal(t, tt.want, p.GetETA())
		})
	}
}
