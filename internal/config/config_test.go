package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/adrg/xdg"

	cfg "github.com/rohanverma/upq/internal/config"
)

func withTempConfigHome(t *testing.T) (restore func(), file string) {
	t.Helper()

	orig := xdg.ConfigHome
	dir := t.TempDir()
	xdg.ConfigHome = dir
	restore = func() { xdg.ConfigHome = orig }
	file = filepath.Join(dir, "upq")

	return restore, file
}

func TestGetConfig_Table(t *testing.T) {
	restore, cfgFile := withTempConfigHome(t)
	defer restore()

	def := cfg.DefaultConfig()

	tests := []struct {
		name      string
		preWrite  bool
		contents  string
		expectErr bool
		check     func(t *testing.T, got *cfg.Config)
	}{
		{
			name:     "missing_file_returns_defaults",
			preWrite: false,
			check: func(t *testing.T, got *cfg.Config) {
				if !reflect.DeepEqual(*got, def) {
					t.Fatalf("expected defaults\nwant: %#v\ngot:  %#v", def, *got)
				}
			},
		},
		{
			name:     "empty_file_returns_defaults",
			preWrite: true,
			contents: "",
			check: func(t *testing.T, got *cfg.Config) {
				if !reflect.DeepEqual(*got, def) {
					t.Fatalf("expected defaults\nwant: %#v\ngot:  %#v", def, *got)
				}
			},
		},
		{
			name:      "invalid_yaml_returns_error",
			preWrite:  true,
			contents:  ": not yaml",
			expectErr: true,
		},
		{
			name:     "partial_file_merges_defaults",
			preWrite: true,
			contents: "maxConcurrentUploads: 5\n",
			check: func(t *testing.T, got *cfg.Config) {
				if got.MaxConcurrentUploads != 5 {
					t.Errorf("MaxConcurrentUploads = %d, want 5", got.MaxConcurrentUploads)
				}

				if got.Upload.FieldName != def.Upload.FieldName {
					t.Errorf("FieldName = %q, want default %q", got.Upload.FieldName, def.Upload.FieldName)
				}

				if got.Upload.ThumbnailDir != def.Upload.ThumbnailDir {
					t.Errorf("ThumbnailDir = %q, want default %q", got.Upload.ThumbnailDir, def.Upload.ThumbnailDir)
				}
			},
		},
		{
			name:     "upload_section_merges_defaults",
			preWrite: true,
			contents: "upload:\n  endpoint: https://files.example.com/upload\n  timeout: 30s\n",
			check: func(t *testing.T, got *cfg.Config) {
				if got.Upload.Endpoint != "https://files.example.com/upload" {
					t.Errorf("Endpoint = %q", got.Upload.Endpoint)
				}

				if got.Upload.Timeout != 30*time.Second {
					t.Errorf("Timeout = %v, want 30s", got.Upload.Timeout)
				}

				if got.Upload.FieldName != def.Upload.FieldName {
					t.Errorf("FieldName = %q, want default %q", got.Upload.FieldName, def.Upload.FieldName)
				}

				if got.MaxConcurrentUploads != def.MaxConcurrentUploads {
					t.Errorf("MaxConcurrentUploads = %d, want default %d", got.MaxConcurrentUploads, def.MaxConcurrentUploads)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.preWrite {
				if err := os.WriteFile(cfgFile, []byte(tt.contents), 0o600); err != nil {
					t.Fatalf("failed to write config file: %v", err)
				}
			} else {
				_ = os.Remove(cfgFile)
			}

			got, err := cfg.GetConfig()

			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}

			tt.check(t, got)
		})
	}
}
