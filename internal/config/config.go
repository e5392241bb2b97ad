// Package config builds the process configuration for the image tool
// server. A Config is constructed once at startup from the environment,
// optionally overlaid from a YAML file, validated, and passed by reference
// into every component; nothing reads the environment after startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables read at startup.
const (
	EnvAPIKey           = "TOGETHER_API_KEY"
	EnvBaseURL          = "TOGETHER_BASE_URL"
	EnvText2ImageModel  = "TOGETHER_TEXT2IMAGE_MODEL_ID"
	EnvImage2ImageModel = "TOGETHER_IMAGE2IMAGE_MODEL_ID"
	EnvImage2TextModel  = "TOGETHER_IMAGE2TEXT_MODEL_ID"
	EnvSharedDir        = "AGENT_SHARED_DIR"
)

// Config selects the upstream models and the diagnostic log location.
type Config struct {
	APIKey           string   `yaml:"api_key"`
	BaseURL          string   `yaml:"base_url"`
	Text2ImageModel  string   `yaml:"text2image_model"`
	Image2ImageModel string   `yaml:"image2image_model"`
	Image2TextModel  string   `yaml:"image2text_model"`
	SharedDir        string   `yaml:"shared_dir"`
	Generate         Defaults `yaml:"generate"`
}

// Defaults are the generation parameters sent upstream when the caller does
// not override them. Text-to-image defaults to portrait, edit keeps the
// square conditioning size.
type Defaults struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	EditWidth  int `yaml:"edit_width"`
	EditHeight int `yaml:"edit_height"`
	Steps      int `yaml:"steps"`
}

// FromEnv reads the environment into a Config with generation defaults.
// Call Validate before use; FromEnv itself never fails.
func FromEnv() *Config {
	return &Config{
		APIKey:           os.Getenv(EnvAPIKey),
		BaseURL:          os.Getenv(EnvBaseURL),
		Text2ImageModel:  os.Getenv(EnvText2ImageModel),
		Image2ImageModel: os.Getenv(EnvImage2ImageModel),
		Image2TextModel:  os.Getenv(EnvImage2TextModel),
		SharedDir:        os.Getenv(EnvSharedDir),
		Generate: Defaults{
			Width:      1024,
			Height:     1792,
			EditWidth:  1024,
			EditHeight: 1024,
			Steps:      4,
		},
	}
}

// ApplyFile overlays non-zero values from a YAML file onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var over Config
	if err := yaml.Unmarshal(data, &over); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.APIKey, over.APIKey)
	setString(&c.BaseURL, over.BaseURL)
	setString(&c.Text2ImageModel, over.Text2ImageModel)
	setString(&c.Image2ImageModel, over.Image2ImageModel)
	setString(&c.Image2TextModel, over.Image2TextModel)
	setString(&c.SharedDir, over.SharedDir)
	setInt(&c.Generate.Width, over.Generate.Width)
	setInt(&c.Generate.Height, over.Generate.Height)
	setInt(&c.Generate.EditWidth, over.Generate.EditWidth)
	setInt(&c.Generate.EditHeight, over.Generate.EditHeight)
	setInt(&c.Generate.Steps, over.Generate.Steps)
	return nil
}

// Validate checks the startup requirements: API key, the three model IDs,
// and an existing shared directory for logs. A missing value here is fatal
// at startup, never a per-call error.
func (c *Config) Validate() error {
	required := []struct {
		value  string
		envVar string
	}{
		{c.APIKey, EnvAPIKey},
		{c.Text2ImageModel, EnvText2ImageModel},
		{c.Image2ImageModel, EnvImage2ImageModel},
		{c.Image2TextModel, EnvImage2TextModel},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is not set", r.envVar)
		}
	}

	if c.SharedDir == "" {
		return fmt.Errorf("%s is not set", EnvSharedDir)
	}
	info, err := os.Stat(c.SharedDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s does not exist: %s", EnvSharedDir, c.SharedDir)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
