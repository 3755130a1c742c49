// Package export builds the serializable snapshot a backup/migrate
// command writes out: the active config, every installed app, and every
// bucket, each decorated with a canonical package URL.
package export

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/package-url/packageurl-go"

	"github.com/winpax/gscoop/bucket"
	"github.com/winpax/gscoop/gitrepo"
	"github.com/winpax/gscoop/manifest"
	"github.com/winpax/gscoop/scoopctx"
	"github.com/winpax/gscoop/scoopctx/config"
)

// AppEntry is one installed app's exported record.
type AppEntry struct {
	Name    string `json:"Name"`
	Source  string `json:"Source"`
	Updated string `json:"Updated"`
	Version string `json:"Version"`
	Info    string `json:"Info"`
	PURL    string `json:"Purl,omitempty"`
}

// BucketEntry is one bucket's exported record.
type BucketEntry struct {
	Name      string `json:"Name"`
	Source    string `json:"Source"`
	Updated   string `json:"Updated"`
	Manifests int    `json:"Manifests"`
}

// Snapshot is the full exported document.
type Snapshot struct {
	Config  *config.Config `json:"config,omitempty"`
	Apps    []AppEntry     `json:"apps"`
	Buckets []BucketEntry  `json:"buckets"`
}

// timeNow is the local-TZ, microsecond-precision RFC-3339 clock used for
// app entries; overridable in tests.
var timeNow = time.Now

// Build assembles a Snapshot from ctx: every installed app (from its
// install.json sidecar and local manifest) and every bucket under
// ctx.BucketsPath(). Apps are sorted lexicographically by lowercased
// name.
func Build(ctx scoopctx.Context, includeConfig bool) (Snapshot, error) {
	var snap Snapshot
	if includeConfig {
		cfg := ctx.Config()
		snap.Config = &cfg
	}

	apps, err := ctx.InstalledApps()
	if err != nil {
		return Snapshot{}, err
	}
	snap.Apps = make([]AppEntry, 0, len(apps))
	for _, name := range apps {
		entry := buildAppEntry(ctx, name)
		snap.Apps = append(snap.Apps, entry)
	}
	sort.Slice(snap.Apps, func(i, j int) bool {
		return strings.ToLower(snap.Apps[i].Name) < strings.ToLower(snap.Apps[j].Name)
	})

	buckets, err := bucket.ListAll(ctx.BucketsPath())
	if err != nil {
		return Snapshot{}, err
	}
	snap.Buckets = make([]BucketEntry, 0, len(buckets))
	for _, b := range buckets {
		snap.Buckets = append(snap.Buckets, buildBucketEntry(b))
	}

	return snap, nil
}

func buildAppEntry(ctx scoopctx.Context, name string) AppEntry {
	entry := AppEntry{Name: name, Updated: timeNow().Local().Format("2006-01-02T15:04:05.000000Z07:00")}

	r := NewReader(ctx)
	if im, err := r.InstallManifest(name); err == nil {
		entry.Source = im.GetSource()
		if im.Hold {
			entry.Info = "Held"
		}
		if m, err := r.LocalManifest(name); err == nil {
			entry.Version = m.Version.String()
			entry.PURL = purlFor(im.Bucket, name, m.Version.String())
		}
	}
	return entry
}

func buildBucketEntry(b *bucket.Bucket) BucketEntry {
	entry := BucketEntry{Name: b.Name()}
	if names, err := b.ListPackageNames(); err == nil {
		entry.Manifests = len(names)
	}
	repo, err := openBucketRepo(b)
	if err != nil {
		return entry
	}
	entry.Source = repo.OriginURL()
	if t, err := repo.LatestCommitTime(); err == nil {
		entry.Updated = t
	}
	return entry
}

// purlFor builds "pkg:scoop/<bucket>/<name>@<version>", or "" if bucket
// is unknown (URL or file-sourced installs have no canonical bucket).
func purlFor(bucketName, name, version string) string {
	if bucketName == "" {
		return ""
	}
	p := packageurl.NewPackageURL("scoop", bucketName, name, version, nil, "")
	return p.ToString()
}

// Reader is the filesystem-facing half of Build, split out so tests can
// substitute fixtures without a full Context.
type Reader struct {
	ctx scoopctx.Context
}

// NewReader wraps ctx for export use.
func NewReader(ctx scoopctx.Context) *Reader { return &Reader{ctx: ctx} }

func (r *Reader) InstallManifest(name string) (*manifest.InstallManifest, error) {
	return manifest.LoadInstallManifest(filepath.Join(r.ctx.AppsPath(), name, "current", "install.json"))
}

func (r *Reader) LocalManifest(name string) (*manifest.Manifest, error) {
	return manifest.FromPath(filepath.Join(r.ctx.AppsPath(), name, "current", "manifest.json"))
}

// openBucketRepo opens the git checkout backing b, which lives directly at
// the bucket's own directory (unlike app installs, buckets are not
// versioned by a "current" symlink).
func openBucketRepo(b *bucket.Bucket) (*gitrepo.Repository, error) {
	return gitrepo.Open(b.Path())
}
