// Package metadata reads package metadata out of an APK.
package metadata

import (
	"context"
	"fmt"

	"github.com/shogo82148/androidbinary/apk"
	"github.com/specialistvlad/playpublisher/internal/ctxlog"
	"github.com/specialistvlad/playpublisher/internal/release"
)

// Read opens the APK at path and returns its metadata. The APK handle is
// closed before Read returns. Any failure is a MetadataParseError.
func Read(ctx context.Context, path string) (*release.BinaryMetadata, error) {
	logger := ctxlog.FromContext(ctx)
	logger.DebugContext(ctx, "Opening APK.", "path", path)

	pkg, err := apk.OpenFile(path)
	if err != nil {
		return nil, &release.Error{Kind: release.MetadataParseError, Err: fmt.Errorf("failed to open %s: %w", path, err)}
	}
	defer pkg.Close()

	manifest := pkg.Manifest()

	versionCode, err := manifest.VersionCode.Int32()
	if err != nil {
		return nil, &release.Error{Kind: release.MetadataParseError, Err: fmt.Errorf("failed to read version code of %s: %w", path, err)}
	}

	versionName, err := manifest.VersionName.String()
	if err != nil {
		return nil, &release.Error{Kind: release.MetadataParseError, Err: fmt.Errorf("failed to read version name of %s: %w", path, err)}
	}

	// The label is only used for display, so an unresolvable one is not fatal.
	label, err := pkg.Label(nil)
	if err != nil {
		logger.DebugContext(ctx, "APK label could not be resolved.", "path", path, "error", err)
		label = ""
	}

	meta := &release.BinaryMetadata{
		PackageName: pkg.PackageName(),
		AppName:     label,
		VersionCode: int64(versionCode),
		VersionName: versionName,
	}
	if meta.PackageName == "" {
		return nil, release.Errorf(release.MetadataParseError, "%s declares no package name", path)
	}
	return meta, nil
}
