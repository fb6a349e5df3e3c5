// Package app contains the application lifecycle of a single publish run.
// It defines the App struct and its configuration, wires the metadata
// reader, the credential loader, the publishing service and the metrics
// recorder together, and drives the release orchestrator. It is decoupled
// from the CLI so it can be tested with fake collaborators.
package app
