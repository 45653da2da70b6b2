package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.ListingBaseURL != DefaultListingBaseURL {
		t.Errorf("ListingBaseURL = %q, want %q", s.ListingBaseURL, DefaultListingBaseURL)
	}
	if s.MirrorBaseURL != DefaultMirrorBaseURL {
		t.Errorf("MirrorBaseURL = %q, want %q", s.MirrorBaseURL, DefaultMirrorBaseURL)
	}
	if s.PageDelay != time.Second {
		t.Errorf("PageDelay = %v, want 1s", s.PageDelay)
	}
	if s.DownloadDelay != time.Second {
		t.Errorf("DownloadDelay = %v, want 1s", s.DownloadDelay)
	}
	if s.RateLimitDelay != 10*time.Second {
		t.Errorf("RateLimitDelay = %v, want 10s", s.RateLimitDelay)
	}
	if s.OutputDir != "." {
		t.Errorf("OutputDir = %q, want %q", s.OutputDir, ".")
	}
	if s.UserAgent == "" {
		t.Error("UserAgent should not be empty")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MirrorBaseURL != DefaultMirrorBaseURL {
		t.Errorf("MirrorBaseURL = %q, want default", s.MirrorBaseURL)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "" +
		"mirror_base_url: http://localhost:9999\n" +
		"output_dir: /tmp/osz\n" +
		"page_delay: 250ms\n" +
		"max_retries: 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MirrorBaseURL != "http://localhost:9999" {
		t.Errorf("MirrorBaseURL = %q", s.MirrorBaseURL)
	}
	if s.OutputDir != "/tmp/osz" {
		t.Errorf("OutputDir = %q", s.OutputDir)
	}
	if s.PageDelay != 250*time.Millisecond {
		t.Errorf("PageDelay = %v, want 250ms", s.PageDelay)
	}
	if s.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", s.MaxRetries)
	}
	// Untouched keys keep their defaults.
	if s.ListingBaseURL != DefaultListingBaseURL {
		t.Errorf("ListingBaseURL = %q, want default", s.ListingBaseURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing explicit path should fail")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OSUDL_OUTPUT_DIR", "/data/maps")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.OutputDir != "/data/maps" {
		t.Errorf("OutputDir = %q, want env override", s.OutputDir)
	}
}
