package release

import (
	"fmt"
	"os"
)

// NotesLanguage is the language tag every release note is published under.
const NotesLanguage = "en_US"

// Note is a single localized release note.
type Note struct {
	Language string
	Text     string
}

// TrackRelease is the release payload attached to a track inside an edit.
type TrackRelease struct {
	Track        string
	Name         string
	Status       string
	VersionCodes []int64
	Notes        []Note
}

// ResolveNotes returns the release notes for the request. A notes file wins
// over inline text; with neither the result is empty. A notes file that cannot
// be read is a NotesReadError.
func ResolveNotes(req *Request) ([]Note, error) {
	switch {
	case req.NotesFile() != "":
		content, err := os.ReadFile(req.NotesFile())
		if err != nil {
			return nil, &Error{Kind: NotesReadError, Err: fmt.Errorf("failed to read notes file: %w", err)}
		}
		return []Note{{Language: NotesLanguage, Text: string(content)}}, nil
	case req.Notes() != "":
		return []Note{{Language: NotesLanguage, Text: req.Notes()}}, nil
	default:
		return []Note{}, nil
	}
}
