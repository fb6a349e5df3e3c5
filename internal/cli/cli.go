package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/playpublisher/internal/app"
	"github.com/specialistvlad/playpublisher/internal/config"
	"github.com/specialistvlad/playpublisher/internal/ctxlog"
	"github.com/specialistvlad/playpublisher/internal/hcl"
	"github.com/specialistvlad/playpublisher/internal/release"
	"github.com/specialistvlad/playpublisher/internal/yamlconfig"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by the program to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if release.KindOf(err) == release.ConfigurationError {
		return 2
	}
	return 1
}

// flagValues holds the raw values of all flags.
type flagValues struct {
	config      string
	key         string
	file        string
	name        string
	packageName string
	track       string
	releaseName string
	status      string
	notes       string
	notesFile   string
	logLevel    string
	logFormat   string
	metricsFile string
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Usage and parse errors are written to output.
func Parse(ctx context.Context, args []string, output io.Writer) (*app.Config, bool, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("CLI parser started.")

	flagSet := flag.NewFlagSet("playpublisher", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
playpublisher - publish an APK or AAB to a Google Play release track.

Usage:
  playpublisher -key <key.json> -file <app.aab|app.apk> -track <track> -releasename <name> [options]

Bundles (.aab) require -packageName. For APKs the package and app name are
read from the file unless given explicitly.

Options:
`)
		flagSet.PrintDefaults()
	}

	var v flagValues
	flagSet.StringVar(&v.config, "config", "", "(optional) HCL (.hcl) or YAML (.yaml, .yml) file with defaults for any option")
	flagSet.StringVar(&v.key, "key", "", "JSON key file of authorized service account")
	flagSet.StringVar(&v.file, "file", "", "APK or AAB file to be released")
	flagSet.StringVar(&v.name, "name", "", "(optional) Application name, defaults to the label in the APK")
	flagSet.StringVar(&v.packageName, "packageName", "", "(optional for APK, required for AAB) Package name of the application")
	flagSet.StringVar(&v.track, "track", "", "Release track to use. Eg. internal, alpha, beta or production")
	flagSet.StringVar(&v.releaseName, "releasename", "", "Name of the new release")
	flagSet.StringVar(&v.status, "status", "", "(optional) Release status: completed (default), draft, inProgress or halted")
	flagSet.StringVar(&v.notes, "notes", "", "(optional) Release notes, cannot be combined with -notesFile")
	flagSet.StringVar(&v.notesFile, "notesFile", "", "(optional) File with release notes, cannot be combined with -notes")
	flagSet.StringVar(&v.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info' (default), 'warn', 'error'.")
	flagSet.StringVar(&v.logFormat, "log-format", "", "Log output format. Options: 'text' (default) or 'json'.")
	flagSet.StringVar(&v.metricsFile, "metrics-file", "", "(optional) Write Prometheus metrics of the run to this file")

	if len(args) == 0 {
		fmt.Fprintln(output, "Invalid arguments.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "no arguments given"}
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })
	logger.Debug("Arguments parsed successfully.", "flags_set", len(set))

	if set["notes"] && set["notesFile"] {
		fmt.Fprintln(output, "Invalid arguments.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "option -notes cannot be used with the option(s) [-notesFile]"}
	}

	file := &config.Model{}
	if v.config != "" {
		loaded, err := loadConfigFile(ctx, v.config)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("failed to load config file: %v", err)}
		}
		file = loaded
	}

	opts := mergeOptions(file, v, set)
	req, err := release.NewRequest(opts)
	if err != nil {
		fmt.Fprintln(output, "Invalid arguments.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg, err := app.NewConfig(app.Config{
		Request:     req,
		LogLevel:    strings.ToLower(pick(set["log-level"], v.logLevel, file.LogLevel)),
		LogFormat:   strings.ToLower(pick(set["log-format"], v.logFormat, file.LogFormat)),
		MetricsFile: pick(set["metrics-file"], v.metricsFile, file.MetricsFile),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logger.Debug("CLI parser finished successfully.", "track", req.Track(), "file", req.BinaryPath())
	return cfg, false, nil
}

// mergeOptions overlays the flags that were given on top of the config file.
// The notes source is replaced as a whole: giving either notes flag drops
// both notes values from the file.
func mergeOptions(file *config.Model, v flagValues, set map[string]bool) release.Options {
	opts := file.ReleaseOptions()
	opts.KeyPath = pick(set["key"], v.key, opts.KeyPath)
	opts.BinaryPath = pick(set["file"], v.file, opts.BinaryPath)
	opts.AppName = pick(set["name"], v.name, opts.AppName)
	opts.PackageName = pick(set["packageName"], v.packageName, opts.PackageName)
	opts.Track = pick(set["track"], v.track, opts.Track)
	opts.ReleaseName = pick(set["releasename"], v.releaseName, opts.ReleaseName)
	opts.Status = pick(set["status"], v.status, opts.Status)
	if set["notes"] || set["notesFile"] {
		opts.Notes = v.notes
		opts.NotesFile = v.notesFile
	}
	return opts
}

func pick(isSet bool, flagValue, fallback string) string {
	if isSet {
		return flagValue
	}
	return fallback
}

// loadConfigFile picks the loader from the file extension.
func loadConfigFile(ctx context.Context, path string) (*config.Model, error) {
	var loader config.Loader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		loader = hcl.NewLoader()
	case ".yaml", ".yml":
		loader = yamlconfig.NewLoader()
	default:
		return nil, fmt.Errorf("unsupported config file %q: expected .hcl, .yaml or .yml", path)
	}
	return loader.Load(ctx, path)
}
