package reference

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/winpax/gscoop/manifest"
	"github.com/winpax/gscoop/scooperr"
)

// ErrNotFound is returned by Manifest when a KindName reference matches
// no bucket.
var ErrNotFound = scooperr.Errorf(scooperr.Reference, "no manifest found for reference")

// Manifest resolves r to a single manifest: File/Url read or fetch the
// JSON directly and set Name from the reference; a BucketNamePair opens
// that one bucket; a bare Name searches every bucket
// and returns the first match. If r.Version is set, the loaded manifest's
// version is rewritten via Manifest.SetVersion.
func (r Reference) Manifest(ctx context.Context, buckets BucketSource, fetcher Fetcher, vf manifest.Fetcher, scratchDir string) (*manifest.Manifest, error) {
	var (
		m   *manifest.Manifest
		err error
	)
	switch r.Kind {
	case KindFile:
		m, err = manifest.FromPath(r.Path)
	case KindURL:
		m, err = fromURL(ctx, fetcher, r.URL)
	case KindBucketName:
		var b ManifestSource
		b, err = buckets.Named(r.Bucket)
		if err == nil {
			m, err = b.GetManifest(r.PkgName)
		}
	case KindName:
		m, err = searchAllBuckets(buckets, r.PkgName)
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	if m.Name == "" {
		m.Name = r.Name()
	}

	if r.Version != "" && r.Version != m.Version {
		if err := m.SetVersion(ctx, vf, scratchDir, r.Version, manifest.X64); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func fromURL(ctx context.Context, fetcher Fetcher, rawURL string) (*manifest.Manifest, error) {
	body, err := fetcher.Get(ctx, rawURL)
	if err != nil {
		return nil, scooperr.New("reference.Manifest", scooperr.IO, rawURL, err)
	}
	var m manifest.Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, scooperr.New("reference.Manifest", scooperr.ParsingManifest, rawURL, err)
	}
	return &m, nil
}

func searchAllBuckets(buckets BucketSource, name string) (*manifest.Manifest, error) {
	all, err := buckets.All()
	if err != nil {
		return nil, err
	}
	for _, b := range all {
		m, err := b.GetManifest(name)
		if err == nil {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

// ListManifests resolves r to every matching manifest: a bucket-qualified
// or unqualified file/url reference still yields exactly one, but a bare
// Name with no bucket searches every bucket and returns every match
// instead of stopping at the first.
func (r Reference) ListManifests(ctx context.Context, buckets BucketSource, fetcher Fetcher, vf manifest.Fetcher, scratchDir string) ([]*manifest.Manifest, error) {
	if r.Kind != KindName {
		m, err := r.Manifest(ctx, buckets, fetcher, vf, scratchDir)
		if err != nil {
			return nil, err
		}
		return []*manifest.Manifest{m}, nil
	}

	all, err := buckets.All()
	if err != nil {
		return nil, err
	}
	var out []*manifest.Manifest
	for _, b := range all {
		m, err := b.GetManifest(r.PkgName)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Installed reports whether a directory named r.Name() exists directly
// under appsPath.
func (r Reference) Installed(appsPath string) bool {
	fi, err := os.Stat(filepath.Join(appsPath, r.Name()))
	return err == nil && fi.IsDir()
}
