// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses a publish config file, evaluates its expressions
// (including the env() function) and translates the result into the
// format-agnostic config.Model.
package hcl
