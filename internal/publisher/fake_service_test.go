package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/specialistvlad/playpublisher/internal/ctxlog"
	"github.com/specialistvlad/playpublisher/internal/release"
	"github.com/stretchr/testify/require"
)

// call is one recorded invocation of the fake service.
type call struct {
	Method string
	EditID string
}

// fakeService records every call and fails the methods listed in errs.
type fakeService struct {
	editID      string
	versionCode int64
	errs        map[string]error
	clock       *clockwork.FakeClock
	stepLatency time.Duration

	calls    []call
	uploaded []byte
	kind     release.BinaryKind
	track    release.TrackRelease
}

func newFakeService() *fakeService {
	return &fakeService{
		editID:      "edit-123",
		versionCode: 42,
		errs:        map[string]error{},
	}
}

func (f *fakeService) record(method, editID string) error {
	f.calls = append(f.calls, call{Method: method, EditID: editID})
	if f.clock != nil {
		f.clock.Advance(f.stepLatency)
	}
	return f.errs[method]
}

func (f *fakeService) InsertEdit(_ context.Context, _ string) (string, error) {
	if err := f.record("insert", ""); err != nil {
		return "", err
	}
	return f.editID, nil
}

func (f *fakeService) UploadBinary(_ context.Context, _, editID string, kind release.BinaryKind, media io.Reader) (int64, error) {
	if err := f.record("upload", editID); err != nil {
		return 0, err
	}
	data, err := io.ReadAll(media)
	if err != nil {
		return 0, err
	}
	f.uploaded = data
	f.kind = kind
	return f.versionCode, nil
}

func (f *fakeService) UpdateTrack(_ context.Context, _, editID string, rel release.TrackRelease) error {
	if err := f.record("track", editID); err != nil {
		return err
	}
	f.track = rel
	return nil
}

func (f *fakeService) CommitEdit(_ context.Context, _, editID string) error {
	return f.record("commit", editID)
}

func (f *fakeService) DeleteEdit(_ context.Context, _, editID string) error {
	return f.record("delete", editID)
}

func (f *fakeService) methods() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Method)
	}
	return out
}

func (f *fakeService) count(method string) int {
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// recordingObserver captures observer notifications.
type recordingObserver struct {
	steps       []string
	durations   map[string]time.Duration
	failed      map[string]bool
	versionCode int64
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{durations: map[string]time.Duration{}, failed: map[string]bool{}}
}

func (r *recordingObserver) ObserveStep(step string, d time.Duration, err error) {
	r.steps = append(r.steps, step)
	r.durations[step] = d
	r.failed[step] = err != nil
}

func (r *recordingObserver) SetVersionCode(code int64) { r.versionCode = code }

func testContext() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// newRequest writes a binary with the given extension and returns a request
// for it.
func newRequest(t *testing.T, ext string, mutate func(o *release.Options)) *release.Request {
	t.Helper()
	dir := t.TempDir()
	binary := filepath.Join(dir, "app-release"+ext)
	require.NoError(t, os.WriteFile(binary, []byte("binary-bytes"), 0600))

	opts := release.Options{
		KeyPath:     filepath.Join(dir, "key.json"),
		BinaryPath:  binary,
		PackageName: "com.example.app",
		Track:       "internal",
		ReleaseName: "v1.2.0",
	}
	if mutate != nil {
		mutate(&opts)
	}
	req, err := release.NewRequest(opts)
	require.NoError(t, err)
	return req
}

func targetFor(t *testing.T, req *release.Request) release.Target {
	t.Helper()
	var meta *release.BinaryMetadata
	if req.Variant() == release.DerivedMetadata {
		meta = &release.BinaryMetadata{PackageName: "com.example.derived", AppName: "Example"}
	}
	target, err := release.ResolveTarget(req, meta)
	require.NoError(t, err)
	return target
}

var errTransient = fmt.Errorf("connection reset by peer")
