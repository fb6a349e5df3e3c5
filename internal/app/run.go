package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/playpublisher/internal/ctxlog"
	"github.com/specialistvlad/playpublisher/internal/metrics"
	"github.com/specialistvlad/playpublisher/internal/publisher"
	"github.com/specialistvlad/playpublisher/internal/release"
)

// Run executes one publish: metadata, credentials, then the orchestrator.
// On success the committed edit id is written to the output writer.
func (a *App) Run(ctx context.Context) (err error) {
	runID := a.deps.NewRunID()
	ctx = ctxlog.WithRunID(ctxlog.WithLogger(ctx, a.logger), runID)
	logger := a.logger
	req := a.config.Request

	recorder := metrics.New()
	defer func() {
		recorder.SetSuccess(err == nil)
		a.writeMetrics(ctx, recorder)
	}()

	logger.InfoContext(ctx, "🚀 Starting publish.",
		"file", req.BinaryPath(),
		"kind", req.BinaryKind(),
		"variant", req.Variant(),
		"track", req.Track(),
	)

	target, err := a.resolveTarget(ctx, req)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Target resolved.", "package", target.PackageName, "app_name", target.AppName)

	logger.InfoContext(ctx, "🔑 Loading account credentials...")
	httpClient, err := a.deps.LoadCredentials(ctx, req.KeyPath())
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "Initialising publisher service...")
	svc, err := a.deps.NewService(ctx, httpClient, target.AppName)
	if err != nil {
		return &release.Error{Kind: release.CredentialError, Err: fmt.Errorf("failed to initialise publisher service: %w", err)}
	}

	orchestrator := publisher.New(svc,
		publisher.WithClock(a.deps.Clock),
		publisher.WithObserver(recorder),
	)
	result, err := orchestrator.Publish(ctx, req, target)
	if err != nil {
		logger.ErrorContext(ctx, "Publish failed.", "state", result.State, "edit_id", result.EditID, "kind", release.KindOf(err))
		return err
	}

	logger.InfoContext(ctx, "🏁 Publish finished.", "edit_id", result.EditID, "version_code", result.VersionCode)
	fmt.Fprintf(a.outW, "Success. Committed edit id: %s\n", result.EditID)
	return nil
}

// resolveTarget reads the binary's metadata when the variant needs it and
// merges it with the request.
func (a *App) resolveTarget(ctx context.Context, req *release.Request) (release.Target, error) {
	if req.Variant() != release.DerivedMetadata {
		return release.ResolveTarget(req, nil)
	}

	a.logger.InfoContext(ctx, "🔍 Loading apk file information...")
	meta, err := a.deps.ReadMetadata(ctx, req.BinaryPath())
	if err != nil {
		return release.Target{}, err
	}
	a.logger.InfoContext(ctx, "APK metadata read.",
		"app_name", meta.AppName,
		"package", meta.PackageName,
		"version_code", meta.VersionCode,
		"version_name", meta.VersionName,
	)
	return release.ResolveTarget(req, meta)
}

// writeMetrics exports the run's metrics if a textfile path is configured.
// A failure here never changes the outcome of the run.
func (a *App) writeMetrics(ctx context.Context, recorder *metrics.Recorder) {
	if a.config.MetricsFile == "" {
		return
	}
	if err := recorder.WriteTextfile(a.config.MetricsFile); err != nil {
		a.logger.WarnContext(ctx, "Failed to write metrics file.", "path", a.config.MetricsFile, "error", err)
		return
	}
	a.logger.DebugContext(ctx, "Metrics written.", "path", a.config.MetricsFile)
}
