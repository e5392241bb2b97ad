package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/together"
)

// loadConfig builds and validates the process configuration: environment
// first, then the optional --config YAML overlay.
func loadConfig() (*config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		if err := cfg.ApplyFile(configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cliSetup prepares config, stderr logging and an upstream client for the
// one-shot commands.
func cliSetup() (*config.Config, *together.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logging.Init(slog.LevelWarn, "text", os.Stderr)
	client := together.New(together.Options{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	return cfg, client, nil
}

// outputPath names the i-th of total artifacts: base.ext for a single
// image, base-N.ext for a batch. The extension follows the detected MIME
// type.
func outputPath(base, mimeType string, i, total int) string {
	ext := strings.TrimPrefix(mimeType, "image/")
	if total == 1 {
		return fmt.Sprintf("%s.%s", base, ext)
	}
	return fmt.Sprintf("%s-%d.%s", base, i+1, ext)
}
