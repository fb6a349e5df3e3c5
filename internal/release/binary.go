package release

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BinaryKind is the container format of the file being published.
type BinaryKind int

const (
	APK BinaryKind = iota + 1
	AAB
)

func (k BinaryKind) String() string {
	switch k {
	case APK:
		return "apk"
	case AAB:
		return "aab"
	default:
		return "unknown"
	}
}

// MIMEType is the content type the binary is uploaded with.
func (k BinaryKind) MIMEType() string {
	if k == APK {
		return "application/vnd.android.package-archive"
	}
	return "application/octet-stream"
}

// Variant returns where the package metadata for this kind comes from.
func (k BinaryKind) Variant() Variant {
	if k == APK {
		return DerivedMetadata
	}
	return ExplicitMetadata
}

// BinaryKindFromPath picks the kind from the file extension.
func BinaryKindFromPath(path string) (BinaryKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apk":
		return APK, nil
	case ".aab":
		return AAB, nil
	default:
		return 0, fmt.Errorf("unsupported binary %q: expected an .apk or .aab file", path)
	}
}

// Variant selects the metadata source of a publish run.
type Variant int

const (
	// ExplicitMetadata takes package and app name from the request (bundles).
	ExplicitMetadata Variant = iota + 1
	// DerivedMetadata reads them from the binary itself (legacy APK flow).
	DerivedMetadata
)

// LegacyReleaseName is the release name used by the DerivedMetadata flow.
const LegacyReleaseName = "Automated publish"

func (v Variant) String() string {
	switch v {
	case ExplicitMetadata:
		return "explicit-metadata"
	case DerivedMetadata:
		return "derived-metadata"
	default:
		return "unknown"
	}
}

// ReleaseName returns the name the track release is created with.
func (v Variant) ReleaseName(requested string) string {
	if v == DerivedMetadata {
		return LegacyReleaseName
	}
	return requested
}

// BinaryMetadata is what the metadata reader extracts from an APK.
type BinaryMetadata struct {
	PackageName string
	AppName     string
	VersionCode int64
	VersionName string
}

// Target is the application a run publishes to, after metadata resolution.
type Target struct {
	PackageName string
	AppName     string
	Kind        BinaryKind
	Variant     Variant
}

// ResolveTarget combines the request with the metadata read from the binary.
// Values given explicitly in the request always win. meta may be nil for the
// ExplicitMetadata variant.
func ResolveTarget(req *Request, meta *BinaryMetadata) (Target, error) {
	t := Target{
		PackageName: req.PackageName(),
		AppName:     req.AppName(),
		Kind:        req.BinaryKind(),
		Variant:     req.Variant(),
	}
	if meta != nil {
		if t.PackageName == "" {
			t.PackageName = meta.PackageName
		}
		if t.AppName == "" {
			t.AppName = meta.AppName
		}
	}
	if t.PackageName == "" {
		return Target{}, Errorf(ConfigurationError, "package name could not be determined for %s", req.BinaryPath())
	}
	return t, nil
}
