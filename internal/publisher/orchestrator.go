package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/specialistvlad/playpublisher/internal/ctxlog"
	"github.com/specialistvlad/playpublisher/internal/release"
)

// Result describes how a publish run ended.
type Result struct {
	EditID      string
	PackageName string
	VersionCode int64
	State       State
}

// Orchestrator runs the publish sequence against a Service.
type Orchestrator struct {
	service  Service
	clock    clockwork.Clock
	observer Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used to time steps.
func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithObserver sets the step observer.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) { o.observer = observer }
}

// New creates an Orchestrator for service.
func New(service Service, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		service:  service,
		clock:    clockwork.NewRealClock(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Publish ships the binary of req to target. On success the returned Result
// is in state Committed. Once an edit has been opened, every failure deletes
// it before Publish returns, and a failed delete is joined after the
// original error.
func (o *Orchestrator) Publish(ctx context.Context, req *release.Request, target release.Target) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("package", target.PackageName)
	failed := &Result{PackageName: target.PackageName, State: Failed}

	logger.InfoContext(ctx, "📝 Loading release notes...")
	notes, err := release.ResolveNotes(req)
	if err != nil {
		return failed, err
	}
	logger.DebugContext(ctx, "Release notes resolved.", "count", len(notes))

	binary, err := os.Open(req.BinaryPath())
	if err != nil {
		return failed, &release.Error{Kind: release.ConfigurationError, Err: fmt.Errorf("failed to open binary: %w", err)}
	}
	defer binary.Close()

	logger.InfoContext(ctx, "🆕 Initialising new edit...")
	var editID string
	err = o.step(ctx, StepInsertEdit, func() error {
		var err error
		editID, err = o.service.InsertEdit(ctx, target.PackageName)
		return err
	})
	if err != nil {
		return failed, &release.Error{Kind: release.EditCreationError, Err: fmt.Errorf("failed to create edit for %s: %w", target.PackageName, err)}
	}
	session := newEditSession(target.PackageName, editID)
	logger = logger.With("edit_id", editID)
	logger.InfoContext(ctx, "Edit created.")

	// upload
	logger.InfoContext(ctx, "⬆️ Uploading binary...", "kind", target.Kind, "path", req.BinaryPath())
	err = o.step(ctx, StepUpload, func() error {
		code, err := o.service.UploadBinary(ctx, session.packageName, session.id, target.Kind, binary)
		session.versionCode = code
		return err
	})
	if err != nil {
		return o.abort(ctx, session, &release.Error{Kind: release.UploadError, Err: fmt.Errorf("failed to upload %s: %w", req.BinaryPath(), err)})
	}
	session.transition(BinaryUploaded)
	o.observer.SetVersionCode(session.versionCode)
	logger.InfoContext(ctx, "Binary uploaded.", "version_code", session.versionCode)

	// track
	rel := release.TrackRelease{
		Track:        req.Track(),
		Name:         target.Variant.ReleaseName(req.ReleaseName()),
		Status:       req.Status(),
		VersionCodes: []int64{session.versionCode},
		Notes:        notes,
	}
	logger.InfoContext(ctx, "🛤️ Creating a release on track...", "track", rel.Track, "release", rel.Name, "status", rel.Status)
	err = o.step(ctx, StepUpdateTrack, func() error {
		return o.service.UpdateTrack(ctx, session.packageName, session.id, rel)
	})
	if err != nil {
		return o.abort(ctx, session, &release.Error{Kind: release.TrackUpdateError, Err: fmt.Errorf("failed to update track %s: %w", rel.Track, err)})
	}
	session.transition(TrackUpdated)
	logger.InfoContext(ctx, "Release created on track.", "track", rel.Track)

	// commit
	logger.InfoContext(ctx, "📦 Committing edit...")
	err = o.step(ctx, StepCommit, func() error {
		return o.service.CommitEdit(ctx, session.packageName, session.id)
	})
	if err != nil {
		return o.abort(ctx, session, &release.Error{Kind: release.CommitError, Err: fmt.Errorf("failed to commit edit %s: %w", session.id, err)})
	}
	session.transition(Committed)
	logger.InfoContext(ctx, "✅ Edit committed.")

	return session.result(), nil
}

// abort ends an open session after cause. Kinds that leave an edit behind
// are rolled back; anything else just marks the session failed.
func (o *Orchestrator) abort(ctx context.Context, session *editSession, cause *release.Error) (*Result, error) {
	if session.state.Terminal() {
		return session.result(), cause
	}
	if !cause.Kind.TriggersRollback() {
		session.transition(Failed)
		return session.result(), cause
	}
	return o.rollback(ctx, session, cause)
}

// rollback deletes the edit after cause. The returned error always starts
// with cause.
func (o *Orchestrator) rollback(ctx context.Context, session *editSession, cause error) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.ErrorContext(ctx, "Operation failed, deleting edit...", "edit_id", session.id, "state", session.state, "error", cause)

	err := o.step(ctx, StepDeleteEdit, func() error {
		return o.service.DeleteEdit(ctx, session.packageName, session.id)
	})
	if err != nil {
		session.transition(Failed)
		logger.ErrorContext(ctx, "Failed to delete edit.", "edit_id", session.id, "error", err)
		rollbackErr := &release.Error{Kind: release.RollbackError, Err: fmt.Errorf("failed to delete edit %s: %w", session.id, err)}
		return session.result(), errors.Join(cause, rollbackErr)
	}

	session.transition(RolledBack)
	logger.InfoContext(ctx, "Edit deleted.", "edit_id", session.id)
	return session.result(), cause
}

// step runs fn and reports its duration and outcome to the observer.
func (o *Orchestrator) step(ctx context.Context, name string, fn func() error) error {
	start := o.clock.Now()
	err := fn()
	elapsed := o.clock.Since(start)
	o.observer.ObserveStep(name, elapsed, err)
	ctxlog.FromContext(ctx).DebugContext(ctx, "Step finished.", "step", name, "duration", elapsed, "failed", err != nil)
	return err
}
