// Package reference resolves the four textual shapes a user can name a
// package with — "bucket/name", "name", a local manifest file path, or a
// URL — each optionally suffixed with "@version", into one or more loaded
// manifests.
package reference

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/winpax/gscoop/manifest"
	"github.com/winpax/gscoop/scooperr"
	"github.com/winpax/gscoop/version"
)

// Kind tags which of the four reference shapes a Reference holds.
type Kind int

const (
	KindBucketName Kind = iota
	KindName
	KindFile
	KindURL
)

// Reference is the parsed, not-yet-resolved form of a package argument.
type Reference struct {
	Kind    Kind
	Bucket  string // KindBucketName only
	PkgName string // KindBucketName, KindName
	Path    string // KindFile
	URL     string // KindURL
	Version version.Version
}

// BucketSource abstracts the bucket layer so reference doesn't import it
// directly.
type BucketSource interface {
	// Named opens the bucket called name.
	Named(name string) (ManifestSource, error)
	// All returns every known bucket, in enumeration order.
	All() ([]ManifestSource, error)
}

// ManifestSource is the subset of *bucket.Bucket reference needs.
type ManifestSource interface {
	Name() string
	GetManifest(name string) (*manifest.Manifest, error)
	ListPackageNames() ([]string, error)
}

// Fetcher performs an HTTP GET for KindURL references.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Parse interprets s as a package reference: a URL, then an existing file
// path, then a "/"-delimited bucket/name pair.
func Parse(s string) (Reference, error) {
	body, ver, hasVer := strings.Cut(s, "@")
	if !hasVer {
		body = s
		ver = ""
	}

	if u, err := url.ParseRequestURI(body); err == nil && u.Scheme != "" && u.Host != "" {
		return Reference{Kind: KindURL, URL: body, Version: version.Version(ver)}, nil
	}

	if fi, err := os.Stat(body); err == nil && !fi.IsDir() {
		return Reference{Kind: KindFile, Path: body, Version: version.Version(ver)}, nil
	}

	segments := strings.Split(body, "/")
	switch len(segments) {
	case 1:
		return Reference{Kind: KindName, PkgName: segments[0], Version: version.Version(ver)}, nil
	case 2:
		return Reference{Kind: KindBucketName, Bucket: segments[0], PkgName: segments[1], Version: version.Version(ver)}, nil
	default:
		return Reference{}, scooperr.Errorf(scooperr.Reference, "too many path segments in reference %q", s)
	}
}

// Name recovers a display name for r regardless of Kind: the file stem
// for KindFile, the last URL segment's stem for KindURL, or the parsed
// package name for the other two kinds.
func (r Reference) Name() string {
	switch r.Kind {
	case KindFile:
		base := filepath.Base(r.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	case KindURL:
		u, err := url.Parse(r.URL)
		if err != nil {
			return r.URL
		}
		base := filepath.Base(u.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	default:
		return r.PkgName
	}
}
