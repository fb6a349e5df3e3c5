package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/playpublisher/internal/config"
	"github.com/specialistvlad/playpublisher/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot mirrors the attributes a publish config file may set.
type fileRoot struct {
	Key         string `hcl:"key,optional"`
	File        string `hcl:"file,optional"`
	Name        string `hcl:"name,optional"`
	PackageName string `hcl:"package_name,optional"`
	Track       string `hcl:"track,optional"`
	ReleaseName string `hcl:"release_name,optional"`
	Status      string `hcl:"status,optional"`
	Notes       string `hcl:"notes,optional"`
	NotesFile   string `hcl:"notes_file,optional"`

	LogLevel    string `hcl:"log_level,optional"`
	LogFormat   string `hcl:"log_format,optional"`
	MetricsFile string `hcl:"metrics_file,optional"`
}

// Load parses the HCL file at path and translates it into a config.Model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.DebugContext(ctx, "HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, newEvalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model := translate(&root)
	logger.DebugContext(ctx, "HCL config translated into model.", "path", path)
	return model, nil
}

func translate(root *fileRoot) *config.Model {
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
	}
}
