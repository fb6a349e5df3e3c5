// Package cli is responsible for parsing command-line arguments, merging them
// with an optional config file, validating the resulting release request and
// mapping failures to process exit codes.
package cli
