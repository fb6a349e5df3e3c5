package playapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/playpublisher/internal/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const testPackage = "com.example.app"

// fakePlay is a minimal stand-in for the edits API. Routes are keyed by
// method and the path below /applications/<package>/, with uploads prefixed
// by "upload:".
type fakePlay struct {
	mu        sync.Mutex
	routes    []string
	fail      map[string]int
	bodies    map[string]string
	userAgent string
}

func newFakePlay() *fakePlay {
	return &fakePlay{fail: map[string]int{}, bodies: map[string]string{}}
}

func (f *fakePlay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	marker := "/applications/" + testPackage + "/"
	i := strings.Index(r.URL.Path, marker)
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	route := r.URL.Path[i+len(marker):]
	if strings.HasPrefix(r.URL.Path, "/upload/") {
		route = "upload:" + route
	}
	key := r.Method + " " + route

	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.routes = append(f.routes, key)
	f.bodies[key] = string(body)
	f.userAgent = r.Header.Get("User-Agent")
	status, failing := f.fail[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"injected failure for %s"}}`, status, key)
		return
	}

	switch key {
	case "POST edits":
		fmt.Fprint(w, `{"id":"edit-1","expiryTimeSeconds":"1700000000"}`)
	case "POST upload:edits/edit-1/bundles":
		fmt.Fprint(w, `{"versionCode":42,"sha256":"abc"}`)
	case "POST upload:edits/edit-1/apks":
		fmt.Fprint(w, `{"versionCode":7}`)
	case "PUT edits/edit-1/tracks/internal":
		fmt.Fprint(w, string(body))
	case "POST edits/edit-1:commit":
		fmt.Fprint(w, `{"id":"edit-1"}`)
	case "DELETE edits/edit-1":
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakePlay) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := New(context.Background(), srv.Client(), "Example App", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return client
}

func TestClient_FullEditLifecycle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fake := newFakePlay()
	client := newTestClient(t, fake)
	ctx := context.Background()

	// --- Act ---
	editID, err := client.InsertEdit(ctx, testPackage)
	require.NoError(t, err)

	code, err := client.UploadBinary(ctx, testPackage, editID, release.AAB, strings.NewReader("bundle-bytes"))
	require.NoError(t, err)

	err = client.UpdateTrack(ctx, testPackage, editID, release.TrackRelease{
		Track:        "internal",
		Name:         "v1.2.0",
		Status:       "completed",
		VersionCodes: []int64{code},
		Notes:        []release.Note{{Language: "en_US", Text: "Bug fixes"}},
	})
	require.NoError(t, err)

	err = client.CommitEdit(ctx, testPackage, editID)
	require.NoError(t, err)

	// --- Assert ---
	require.Equal(t, "edit-1", editID)
	require.Equal(t, int64(42), code)
	require.Equal(t, []string{
		"POST edits",
		"POST upload:edits/edit-1/bundles",
		"PUT edits/edit-1/tracks/internal",
		"POST edits/edit-1:commit",
	}, fake.routes)
	assert.Contains(t, fake.bodies["POST upload:edits/edit-1/bundles"], "bundle-bytes")
	assert.Contains(t, fake.userAgent, "Example App")

	var track struct {
		Track    string `json:"track"`
		Releases []struct {
			Name         string   `json:"name"`
			Status       string   `json:"status"`
			VersionCodes []string `json:"versionCodes"`
			ReleaseNotes []struct {
				Language string `json:"language"`
				Text     string `json:"text"`
			} `json:"releaseNotes"`
		} `json:"releases"`
	}
	require.NoError(t, json.Unmarshal([]byte(fake.bodies["PUT edits/edit-1/tracks/internal"]), &track))
	require.Equal(t, "internal", track.Track)
	require.Len(t, track.Releases, 1)
	assert.Equal(t, "v1.2.0", track.Releases[0].Name)
	assert.Equal(t, "completed", track.Releases[0].Status)
	assert.Equal(t, []string{"42"}, track.Releases[0].VersionCodes)
	require.Len(t, track.Releases[0].ReleaseNotes, 1)
	assert.Equal(t, "en_US", track.Releases[0].ReleaseNotes[0].Language)
	assert.Equal(t, "Bug fixes", track.Releases[0].ReleaseNotes[0].Text)
}

func TestClient_UploadApk(t *testing.T) {
	t.Parallel()

	fake := newFakePlay()
	client := newTestClient(t, fake)

	code, err := client.UploadBinary(context.Background(), testPackage, "edit-1", release.APK, strings.NewReader("apk-bytes"))

	require.NoError(t, err)
	require.Equal(t, int64(7), code)
	require.Equal(t, []string{"POST upload:edits/edit-1/apks"}, fake.routes)
}

func TestClient_DeleteEdit(t *testing.T) {
	t.Parallel()

	fake := newFakePlay()
	client := newTestClient(t, fake)

	err := client.DeleteEdit(context.Background(), testPackage, "edit-1")

	require.NoError(t, err)
	require.Equal(t, []string{"DELETE edits/edit-1"}, fake.routes)
}

func TestClient_ErrorsAreSurfaced(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		route string
		call  func(c *Client) error
	}{
		{
			name:  "insert",
			route: "POST edits",
			call: func(c *Client) error {
				_, err := c.InsertEdit(context.Background(), testPackage)
				return err
			},
		},
		{
			name:  "upload",
			route: "POST upload:edits/edit-1/bundles",
			call: func(c *Client) error {
				_, err := c.UploadBinary(context.Background(), testPackage, "edit-1", release.AAB, strings.NewReader("x"))
				return err
			},
		},
		{
			name:  "commit",
			route: "POST edits/edit-1:commit",
			call: func(c *Client) error {
				return c.CommitEdit(context.Background(), testPackage, "edit-1")
			},
		},
		{
			name:  "delete",
			route: "DELETE edits/edit-1",
			call: func(c *Client) error {
				return c.DeleteEdit(context.Background(), testPackage, "edit-1")
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fake := newFakePlay()
			fake.fail[tc.route] = http.StatusForbidden
			client := newTestClient(t, fake)

			err := tc.call(client)

			require.Error(t, err)
			require.Contains(t, err.Error(), "injected failure for "+tc.route)
		})
	}
}

func TestClient_UnsupportedKind(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newFakePlay())

	_, err := client.UploadBinary(context.Background(), testPackage, "edit-1", release.BinaryKind(99), strings.NewReader("x"))

	require.Error(t, err)
}
