package status

import (
	"path/filepath"

	"github.com/winpax/gscoop/bucket"
	"github.com/winpax/gscoop/manifest"
	"github.com/winpax/gscoop/scoopctx"
)

// ContextReader implements InstalledAppReader and RemoteManifestReader
// directly against a Context and its buckets directory, the concrete
// wiring CollectFor uses.
type ContextReader struct {
	ctx scoopctx.Context
}

// NewContextReader wraps ctx for status collection.
func NewContextReader(ctx scoopctx.Context) *ContextReader { return &ContextReader{ctx: ctx} }

func (r *ContextReader) InstallManifest(name string) (*manifest.InstallManifest, error) {
	return manifest.LoadInstallManifest(filepath.Join(r.ctx.AppsPath(), name, "current", "install.json"))
}

func (r *ContextReader) LocalManifest(name string) (*manifest.Manifest, error) {
	return manifest.FromPath(filepath.Join(r.ctx.AppsPath(), name, "current", "manifest.json"))
}

func (r *ContextReader) AppInstalled(name string) bool {
	return r.ctx.AppInstalled(name)
}

func (r *ContextReader) AppCurrentExists(name string) bool {
	return AppCurrentExists(r.ctx.AppsPath(), name)
}

func (r *ContextReader) RemoteManifest(bucketName, name string) (*manifest.Manifest, error) {
	b, err := bucket.FromName(r.ctx.BucketsPath(), bucketName)
	if err != nil {
		return nil, err
	}
	return b.GetManifest(name)
}

// CollectFor runs Collect for every app installed under ctx.
func CollectFor(ctx scoopctx.Context) ([]Status, error) {
	apps, err := ctx.InstalledApps()
	if err != nil {
		return nil, err
	}
	r := NewContextReader(ctx)
	return Collect(apps, r, r)
}
