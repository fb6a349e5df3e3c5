// Package playapi implements publisher.Service on top of the Google Play
// Developer API (androidpublisher v3).
package playapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/specialistvlad/playpublisher/internal/publisher"
	"github.com/specialistvlad/playpublisher/internal/release"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var _ publisher.Service = (*Client)(nil)

// Client talks to the edits API of the publishing service.
type Client struct {
	edits *androidpublisher.EditsService
}

// New creates a Client that sends its requests through httpClient, which is
// expected to authorize them. appName is sent as the user agent. Extra
// options (e.g. option.WithEndpoint) are passed through to the API client.
func New(ctx context.Context, httpClient *http.Client, appName string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := androidpublisher.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create androidpublisher service: %w", err)
	}
	svc.UserAgent = appName
	return &Client{edits: svc.Edits}, nil
}

// InsertEdit opens a new edit.
func (c *Client) InsertEdit(ctx context.Context, packageName string) (string, error) {
	edit, err := c.edits.Insert(packageName, &androidpublisher.AppEdit{}).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return edit.Id, nil
}

// UploadBinary uploads an APK or bundle into the edit.
func (c *Client) UploadBinary(ctx context.Context, packageName, editID string, kind release.BinaryKind, media io.Reader) (int64, error) {
	contentType := googleapi.ContentType(kind.MIMEType())
	switch kind {
	case release.APK:
		apk, err := c.edits.Apks.Upload(packageName, editID).Media(media, contentType).Context(ctx).Do()
		if err != nil {
			return 0, err
		}
		return apk.VersionCode, nil
	case release.AAB:
		bundle, err := c.edits.Bundles.Upload(packageName, editID).Media(media, contentType).Context(ctx).Do()
		if err != nil {
			return 0, err
		}
		return bundle.VersionCode, nil
	default:
		return 0, fmt.Errorf("unsupported binary kind %s", kind)
	}
}

// UpdateTrack replaces the releases of a track with rel.
func (c *Client) UpdateTrack(ctx context.Context, packageName, editID string, rel release.TrackRelease) error {
	track := &androidpublisher.Track{
		Track:    rel.Track,
		Releases: []*androidpublisher.TrackRelease{toTrackRelease(rel)},
	}
	_, err := c.edits.Tracks.Update(packageName, editID, rel.Track, track).Context(ctx).Do()
	return err
}

// CommitEdit commits the edit.
func (c *Client) CommitEdit(ctx context.Context, packageName, editID string) error {
	_, err := c.edits.Commit(packageName, editID).Context(ctx).Do()
	return err
}

// DeleteEdit deletes the edit.
func (c *Client) DeleteEdit(ctx context.Context, packageName, editID string) error {
	return c.edits.Delete(packageName, editID).Context(ctx).Do()
}

func toTrackRelease(rel release.TrackRelease) *androidpublisher.TrackRelease {
	notes := make([]*androidpublisher.LocalizedText, 0, len(rel.Notes))
	for _, n := range rel.Notes {
		notes = append(notes, &androidpublisher.LocalizedText{Language: n.Language, Text: n.Text})
	}
	return &androidpublisher.TrackRelease{
		Name:         rel.Name,
		Status:       rel.Status,
		VersionCodes: googleapi.Int64s(rel.VersionCodes),
		ReleaseNotes: notes,
	}
}
