// Package status composes the manifest, bucket, and context layers into a per-package status record: installed version vs. what's
// available upstream, missing dependencies, and held/failed flags.
package status

import (
	"os"
	"path/filepath"

	"github.com/Masterminds/semver"

	"github.com/winpax/gscoop/manifest"
)

// Status is one installed app's comparison against its bucket.
type Status struct {
	Name                string
	Current             string
	Available           string
	MissingDependencies []string
	Info                string
}

// InstalledAppReader loads the data Collect needs for one installed app:
// its local install manifest and the local manifest.json the installer
// snapshot left behind.
type InstalledAppReader interface {
	InstallManifest(name string) (*manifest.InstallManifest, error)
	LocalManifest(name string) (*manifest.Manifest, error)
	AppInstalled(name string) bool
	AppCurrentExists(name string) bool
}

// RemoteManifestReader resolves the manifest a bucket currently publishes
// for name.
type RemoteManifestReader interface {
	RemoteManifest(bucket, name string) (*manifest.Manifest, error)
}

// Collect derives one Status per name in installedApps.
func Collect(installedApps []string, local InstalledAppReader, remote RemoteManifestReader) ([]Status, error) {
	out := make([]Status, 0, len(installedApps))
	for _, name := range installedApps {
		st, err := collectOne(name, local, remote)
		if err != nil {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func collectOne(name string, local InstalledAppReader, remote RemoteManifestReader) (Status, error) {
	st := Status{Name: name}

	if !local.AppCurrentExists(name) {
		st.Info = "Install failed"
	}

	lm, err := local.LocalManifest(name)
	if err == nil {
		st.Current = lm.Version.String()
	}

	im, err := local.InstallManifest(name)
	if err == nil {
		if im.Hold {
			st.Info = appendInfo(st.Info, "Held package")
		}
		if rm, err := remote.RemoteManifest(im.Bucket, name); err == nil {
			st.Available = rm.Version.String()
		}
		if lm != nil {
			for _, dep := range lm.Depends {
				if !local.AppInstalled(dep) {
					st.MissingDependencies = append(st.MissingDependencies, dep)
				}
			}
		}
	}

	return st, nil
}

func appendInfo(info, add string) string {
	if info == "" {
		return add
	}
	return info + "; " + add
}

// Outdated reports whether st's installed version is older than what's
// available, treating both as advisory semver when possible and falling
// back to a plain string comparison (manifests are not guaranteed to
// follow semver) when they don't parse.
func (st Status) Outdated() bool {
	if st.Available == "" || st.Current == st.Available {
		return false
	}
	cur, errC := semver.NewVersion(st.Current)
	avail, errA := semver.NewVersion(st.Available)
	if errC != nil || errA != nil {
		return st.Current != st.Available
	}
	return cur.LessThan(avail)
}

// AppCurrentExists reports whether "<apps>/<name>/current" exists, the
// concrete filesystem check behind InstalledAppReader.AppCurrentExists.
func AppCurrentExists(appsPath, name string) bool {
	fi, err := os.Stat(filepath.Join(appsPath, name, "current"))
	return err == nil && fi.IsDir()
}
