// Package config defines the format-agnostic model of the optional publish
// config file, along with the Loader interface implemented by the format
// specific packages (HCL, YAML).
//
// A config file only provides defaults. The CLI layer decides which of its
// values survive once command-line flags are applied.
package config
