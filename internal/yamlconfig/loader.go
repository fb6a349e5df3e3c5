// Package yamlconfig provides the YAML implementation of the config.Loader
// interface.
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/playpublisher/internal/config"
	"github.com/specialistvlad/playpublisher/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML config loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Key         string `yaml:"key"`
	File        string `yaml:"file"`
	Name        string `yaml:"name"`
	PackageName string `yaml:"package_name"`
	Track       string `yaml:"track"`
	ReleaseName string `yaml:"release_name"`
	Status      string `yaml:"status"`
	Notes       string `yaml:"notes"`
	NotesFile   string `yaml:"notes_file"`

	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsFile string `yaml:"metrics_file"`
}

// Load reads the YAML file at path and translates it into a config.Model.
// Unknown keys are rejected.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.DebugContext(ctx, "YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	logger.DebugContext(ctx, "YAML config translated into model.", "path", path)
	return &config.Model{
		KeyPath:     root.Key,
		BinaryPath:  root.File,
		AppName:     root.Name,
		PackageName: root.PackageName,
		Track:       root.Track,
		ReleaseName: root.ReleaseName,
		Status:      root.Status,
		Notes:       root.Notes,
		NotesFile:   root.NotesFile,
		LogLevel:    root.LogLevel,
		LogFormat:   root.LogFormat,
		MetricsFile: root.MetricsFile,
	}, nil
}
