package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	maxConcurrentUploads = 3
	fieldName            = "file"

	// No overall request timeout by default; large transfers are bounded by
	// the transport's connect and idle timeouts instead.
	requestTimeout = time.Duration(0)

	endpoint = ""
)

var thumbnailDir = filepath.Join(os.TempDir(), "upq", "thumbs")
