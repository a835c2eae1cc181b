package upload_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanverma/upq/internal/status"
	"github.com/rohanverma/upq/internal/upload"
)

func TestNewUpload(t *testing.T) {
	path := createTestFile(t, 2048)

	u, err := upload.NewUpload(path, nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, u.Id)
	assert.Equal(t, path, u.Path)
	assert.Equal(t, "payload.bin", u.Filename)
	assert.Equal(t, int64(2048), u.TotalSize)
	assert.Equal(t, int64(0), u.Uploaded)
	assert.Equal(t, status.Pending, u.Status)
	assert.NotNil(t, u.Options)
	assert.False(t, u.AddedAt.IsZero())
}

func TestNewUpload_Errors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := upload.NewUpload("", nil)
		require.ErrorIs(t, err, upload.ErrEmptyPath)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := upload.NewUpload(filepath.Join(t.TempDir(), "ghost.bin"), nil)
		require.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := upload.NewUpload(t.TempDir(), nil)
		require.ErrorIs(t, err, upload.ErrNotRegularFile)
	})
}

func TestUpload_MarshalRoundTrip(t *testing.T) {
	path := createTestFile(t, 1024)

	u, err := upload.NewUpload(path, &upload.Options{
		Folder: "inbox",
		Tags:   []string{"a", "b"},
	})
	require.NoError(t, err)

	u.Status = status.Failed
	u.Uploaded = 512
	u.Error = "network-related error"

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var restored upload.Upload
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, u.Id, restored.Id)
	assert.Equal(t, u.Path, restored.Path)
	assert.Equal(t, u.Filename, restored.Filename)
	assert.Equal(t, u.TotalSize, restored.TotalSize)
	assert.Equal(t, int64(512), restored.Uploaded)
	assert.Equal(t, status.Failed, restored.Status)
	assert.Equal(t, "network-related error", restored.Error)
	require.NotNil(t, restored.Options)
	assert.Equal(t, "inbox", restored.Options.Folder)
	assert.Equal(t, []string{"a", "b"}, restored.Options.Tags)
}

func TestUpload_Thumbnail(t *testing.T) {
	path := createTestFile(t, 64)

	u, err := upload.NewUpload(path, nil)
	require.NoError(t, err)

	assert.Empty(t, u.GetThumbnail())

	u.SetThumbnail("/tmp/thumbs/x.jpg")
	assert.Equal(t, "/tmp/thumbs/x.jpg", u.GetThumbnail())
}

func TestHasThumbnailSupport(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"diagram.png", true},
		{"anim.gif", true},
		{"report.pdf", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, upload.HasThumbnailSupport(tt.path))
		})
	}
}

func TestUpload_StatFollowsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grown.bin")

	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o600))

	u, err := upload.NewUpload(path, nil)
	require.NoError(t, err)

	// Size is fixed at registration; later file growth is not observed.
	require.NoError(t, os.WriteFile(path, make([]byte, 500), 0o600))
	assert.Equal(t, int64(100), u.TotalSize)
}
