package publisher

import (
	"context"
	"io"
	"time"

	"github.com/specialistvlad/playpublisher/internal/release"
)

// Service is the remote publishing API as seen by the orchestrator.
type Service interface {
	// InsertEdit opens a new edit for the package and returns its id.
	InsertEdit(ctx context.Context, packageName string) (string, error)
	// UploadBinary streams media into the edit and returns the version code
	// the service assigned to it.
	UploadBinary(ctx context.Context, packageName, editID string, kind release.BinaryKind, media io.Reader) (int64, error)
	// UpdateTrack replaces the releases of rel.Track inside the edit.
	UpdateTrack(ctx context.Context, packageName, editID string, rel release.TrackRelease) error
	// CommitEdit makes the edit live.
	CommitEdit(ctx context.Context, packageName, editID string) error
	// DeleteEdit discards the edit.
	DeleteEdit(ctx context.Context, packageName, editID string) error
}

// Observer is notified about every executed step.
type Observer interface {
	ObserveStep(step string, d time.Duration, err error)
	SetVersionCode(code int64)
}

type nopObserver struct{}

func (nopObserver) ObserveStep(string, time.Duration, error) {}
func (nopObserver) SetVersionCode(int64)                     {}

// Step names as reported to the Observer.
const (
	StepInsertEdit  = "insert_edit"
	StepUpload      = "upload"
	StepUpdateTrack = "update_track"
	StepCommit      = "commit"
	StepDeleteEdit  = "delete_edit"
)
