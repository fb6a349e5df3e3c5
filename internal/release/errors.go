package release

import (
	"errors"
	"fmt"
)

// Kind tags an Error with the stage of the run that produced it.
type Kind int

const (
	KindUnknown Kind = iota
	ConfigurationError
	CredentialError
	MetadataParseError
	NotesReadError
	EditCreationError
	UploadError
	TrackUpdateError
	CommitError
	RollbackError
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown error",
	ConfigurationError: "configuration error",
	CredentialError:    "credential error",
	MetadataParseError: "metadata parse error",
	NotesReadError:     "notes read error",
	EditCreationError:  "edit creation error",
	UploadError:        "upload error",
	TrackUpdateError:   "track update error",
	CommitError:        "commit error",
	RollbackError:      "rollback error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TriggersRollback reports whether a failure of this kind happens while an
// edit is open and therefore has to be followed by deleting the edit.
func (k Kind) TriggersRollback() bool {
	switch k {
	case UploadError, TrackUpdateError, CommitError:
		return true
	default:
		return false
	}
}

// Error is a failure tagged with the Kind of the stage that produced it.
type Error struct {
	Kind Kind
	Err  error
}

// Errorf builds an *Error of the given kind with a formatted cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error found in err's chain. For an
// error produced by errors.Join this is the primary failure, never the
// rollback failure appended after it.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
