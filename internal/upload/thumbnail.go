package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const thumbnailSize = 160

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".bmp": true, ".webp": true,
}

// HasThumbnailSupport reports whether a preview can be generated for the file.
func HasThumbnailSupport(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// GenerateThumbnail renders a small preview into destDir and records it on
// the upload. It runs detached from the transfer lifecycle; the preview may
// land in any state, including after failure.
func GenerateThumbnail(u *Upload, destDir string) error {
	path := u.getPath()
	if !HasThumbnailSupport(path) {
		return nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", path, err)
	}

	thumb := imaging.Thumbnail(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	thumbPath := filepath.Join(destDir, u.GetID().String()+".jpg")
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}

	u.SetThumbnail(thumbPath)

	return nil
}
