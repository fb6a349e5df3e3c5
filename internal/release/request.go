package release

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultStatus is the rollout status used when none is given.
const DefaultStatus = "completed"

// validStatuses are the release statuses accepted by the publishing API.
var validStatuses = []string{"completed", "draft", "inProgress", "halted"}

// Options is the raw, unvalidated input for a Request. It is what the CLI and
// the config file populate before NewRequest checks it.
type Options struct {
	KeyPath     string
	BinaryPath  string
	AppName     string
	PackageName string
	Track       string
	ReleaseName string
	Status      string
	Notes       string
	NotesFile   string
}

// Request is a validated, immutable ReleaseRequest.
type Request struct {
	keyPath     string
	binaryPath  string
	appName     string
	packageName string
	track       string
	releaseName string
	status      string
	notes       string
	notesFile   string
	binaryKind  BinaryKind
	variant     Variant
}

// NewRequest validates opts and returns the Request built from them. Every
// failure is a ConfigurationError.
func NewRequest(opts Options) (*Request, error) {
	var missing []string
	if opts.KeyPath == "" {
		missing = append(missing, "-key")
	}
	if opts.BinaryPath == "" {
		missing = append(missing, "-file")
	}
	if opts.Track == "" {
		missing = append(missing, "-track")
	}
	if opts.ReleaseName == "" {
		missing = append(missing, "-releasename")
	}
	if len(missing) > 0 {
		return nil, &Error{Kind: ConfigurationError, Err: fmt.Errorf("missing required option(s): %s", strings.Join(missing, ", "))}
	}

	if opts.Notes != "" && opts.NotesFile != "" {
		return nil, &Error{Kind: ConfigurationError, Err: errors.New("-notes and -notesFile are mutually exclusive")}
	}

	status := opts.Status
	if status == "" {
		status = DefaultStatus
	}
	if !isValidStatus(status) {
		return nil, Errorf(ConfigurationError, "invalid status %q: must be one of %s", status, strings.Join(validStatuses, ", "))
	}

	kind, err := BinaryKindFromPath(opts.BinaryPath)
	if err != nil {
		return nil, &Error{Kind: ConfigurationError, Err: err}
	}

	variant := kind.Variant()
	if variant == ExplicitMetadata && opts.PackageName == "" {
		return nil, Errorf(ConfigurationError, "-packageName is required when publishing a bundle (%s)", filepath.Base(opts.BinaryPath))
	}

	return &Request{
		keyPath:     opts.KeyPath,
		binaryPath:  opts.BinaryPath,
		appName:     opts.AppName,
		packageName: opts.PackageName,
		track:       opts.Track,
		releaseName: opts.ReleaseName,
		status:      status,
		notes:       opts.Notes,
		notesFile:   opts.NotesFile,
		binaryKind:  kind,
		variant:     variant,
	}, nil
}

func isValidStatus(s string) bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (r *Request) KeyPath() string        { return r.keyPath }
func (r *Request) BinaryPath() string     { return r.binaryPath }
func (r *Request) AppName() string        { return r.appName }
func (r *Request) PackageName() string    { return r.packageName }
func (r *Request) Track() string          { return r.track }
func (r *Request) ReleaseName() string    { return r.releaseName }
func (r *Request) Status() string         { return r.status }
func (r *Request) Notes() string          { return r.notes }
func (r *Request) NotesFile() string      { return r.notesFile }
func (r *Request) BinaryKind() BinaryKind { return r.binaryKind }
func (r *Request) Variant() Variant       { return r.variant }

// Options returns a copy of the inputs the request was built from.
func (r *Request) Options() Options {
	return Options{
		KeyPath:     r.keyPath,
		BinaryPath:  r.binaryPath,
		AppName:     r.appName,
		PackageName: r.packageName,
		Track:       r.track,
		ReleaseName: r.releaseName,
		Status:      r.status,
		Notes:       r.notes,
		NotesFile:   r.notesFile,
	}
}
