package main

import (
	"strings"
	"testing"

	"atelier/internal/config"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base     string
		mimeType string
		i, total int
		want     string
	}{
		{"image", "image/png", 0, 1, "image.png"},
		{"image", "image/jpeg", 0, 1, "image.jpeg"},
		{"out/cat", "image/webp", 0, 1, "out/cat.webp"},
		{"image", "image/png", 0, 3, "image-1.png"},
		{"image", "image/png", 2, 3, "image-3.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.base, tt.mimeType, tt.i, tt.total); got != tt.want {
			t.Errorf("outputPath(%q, %q, %d, %d) = %q, want %q",
				tt.base, tt.mimeType, tt.i, tt.total, got, tt.want)
		}
	}
}

func TestLoadConfig_ReportsMissingEnv(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvText2ImageModel, "")
	t.Setenv(config.EnvImage2ImageModel, "")
	t.Setenv(config.EnvImage2TextModel, "")
	t.Setenv(config.EnvSharedDir, "")

	_, err := loadConfig()
	if err == nil {
		t.Fatal("loadConfig passed with empty environment")
	}
	if !strings.Contains(err.Error(), "TOGETHER_") {
		t.Errorf("error should name the missing variable, got: %v", err)
	}
}

func TestLoadConfig_Valid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvAPIKey, "k")
	t.Setenv(config.EnvText2ImageModel, "t2i")
	t.Setenv(config.EnvImage2ImageModel, "i2i")
	t.Setenv(config.EnvImage2TextModel, "i2t")
	t.Setenv(config.EnvSharedDir, dir)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SharedDir != dir {
		t.Errorf("SharedDir = %q, want %q", cfg.SharedDir, dir)
	}
}
