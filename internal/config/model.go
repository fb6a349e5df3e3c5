package config

import "github.com/specialistvlad/playpublisher/internal/release"

// Model is the unified representation of a config file. Empty strings mean
// "not set".
type Model struct {
	KeyPath     string
	BinaryPath  string
	AppName     string
	PackageName string
	Track       string
	ReleaseName string
	Status      string
	Notes       string
	NotesFile   string

	LogLevel    string
	LogFormat   string
	MetricsFile string
}

// ReleaseOptions returns the release fields of the model.
func (m *Model) ReleaseOptions() release.Options {
	return release.Options{
		KeyPath:     m.KeyPath,
		BinaryPath:  m.BinaryPath,
		AppName:     m.AppName,
		PackageName: m.PackageName,
		Track:       m.Track,
		ReleaseName: m.ReleaseName,
		Status:      m.Status,
		Notes:       m.Notes,
		NotesFile:   m.NotesFile,
	}
}
