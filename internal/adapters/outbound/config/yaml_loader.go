package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// FileName is the config file looked up inside a directory.
const FileName = ".carouselaudit.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .carouselaudit.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the config at path, or FileName inside path when path is a
// directory. Returns DefaultConfig if the file does not exist.
// Values present in the file override the defaults; absent keys keep them.
func (l *YAMLLoader) Load(path string) (domain.AuditConfig, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	name := filepath.Base(path)

	cfg := domain.DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return domain.AuditConfig{}, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return domain.AuditConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	if err := cfg.Normalize(); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return cfg, nil
}

// Write stores cfg as YAML at path, refusing to overwrite an existing file.
func Write(path string, cfg domain.AuditConfig) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
