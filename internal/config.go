package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings. Values from the config file sit under
// command-line flags; zero values fall back to defaults.
type Config struct {
	Host         string `yaml:"host"`          // model service base URL
	Model        string `yaml:"model"`         // model identifier
	HistoryDir   string `yaml:"history"`       // session directory (file store)
	Store        string `yaml:"store"`         // "file" or "sqlite"
	HistoryLimit int    `yaml:"history_limit"` // prior turns sent per request
	TitleLimit   int    `yaml:"title_limit"`   // derived-title character bound
	OCRLanguage  string `yaml:"ocr_language"`  // tesseract language hint
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Host:         "http://localhost:11434",
		Model:        "llama2",
		HistoryDir:   defaultHistoryDir(),
		Store:        "file",
		HistoryLimit: DefaultHistoryLimit,
		TitleLimit:   DefaultTitleLimit,
		OCRLanguage:  "eng",
	}
}

// LoadConfig reads a YAML config file and merges it over the defaults. A
// missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if file.Host != "" {
		cfg.Host = file.Host
	}
	if file.Model != "" {
		cfg.Model = file.Model
	}
	if file.HistoryDir != "" {
		cfg.HistoryDir = file.HistoryDir
	}
	if file.Store != "" {
		cfg.Store = file.Store
	}
	if file.HistoryLimit > 0 {
		cfg.HistoryLimit = file.HistoryLimit
	}
	if file.TitleLimit > 0 {
		cfg.TitleLimit = file.TitleLimit
	}
	if file.OCRLanguage != "" {
		cfg.OCRLanguage = file.OCRLanguage
	}

	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sidetalk.yaml"
	}
	return filepath.Join(home, ".sidetalk.yaml")
}

func defaultHistoryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history"
	}
	return filepath.Join(home, ".sidetalk", "history")
}
