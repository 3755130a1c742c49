// Package bucket implements the on-disk manifest repository layer (spec
// §4.6): a bucket is a directory of manifest JSON files, optionally
// nested under a "bucket" subdirectory, discovered and searched the way
// the host package manager lays its community repositories out.
package bucket

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/winpax/gscoop/manifest"
	"github.com/winpax/gscoop/scooperr"
)

// Bucket is a handle to one manifest repository directory.
type Bucket struct {
	path string
}

// FromPath validates that p exists and is a directory and returns a
// handle to it.
func FromPath(p string) (*Bucket, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return nil, scooperr.New("bucket.FromPath", scooperr.Bucket, p, err)
	}
	if !fi.IsDir() {
		return nil, scooperr.Errorf(scooperr.Bucket, "%s is not a directory", p)
	}
	return &Bucket{path: p}, nil
}

// FromName opens the bucket named name under bucketsPath.
func FromName(bucketsPath, name string) (*Bucket, error) {
	return FromPath(filepath.Join(bucketsPath, name))
}

// Name returns the bucket's directory name.
func (b *Bucket) Name() string { return filepath.Base(b.path) }

// Path returns the bucket's root directory.
func (b *Bucket) Path() string { return b.path }

// manifestDir returns the directory manifests actually live in: the
// "bucket" subdirectory if present, else the bucket root itself.
func (b *Bucket) manifestDir() string {
	nested := filepath.Join(b.path, "bucket")
	if fi, err := os.Stat(nested); err == nil && fi.IsDir() {
		return nested
	}
	return b.path
}

// ListPackagePaths returns the absolute path of every manifest JSON file
// in the bucket.
func (b *Bucket) ListPackagePaths() ([]string, error) {
	dir := b.manifestDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, scooperr.New("Bucket.ListPackagePaths", scooperr.Bucket, dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// ListPackageNames returns every manifest's name (file stem, no
// extension) in the bucket.
func (b *Bucket) ListPackageNames() ([]string, error) {
	paths, err := b.ListPackagePaths()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		names[i] = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return names, nil
}

// GetManifest loads "<bucket>/[bucket/]<name>.json" and stamps the
// result's Bucket field with b.Name().
func (b *Bucket) GetManifest(name string) (*manifest.Manifest, error) {
	p := filepath.Join(b.manifestDir(), name+".json")
	m, err := manifest.FromPath(p)
	if err != nil {
		return nil, err
	}
	m.Bucket = b.Name()
	return m, nil
}

// ListAll enumerates every immediate subdirectory of bucketsPath as a
// Bucket.
func ListAll(bucketsPath string) ([]*Bucket, error) {
	entries, err := os.ReadDir(bucketsPath)
	if err != nil {
		return nil, scooperr.New("bucket.ListAll", scooperr.Bucket, bucketsPath, err)
	}
	var out []*Bucket
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		out = append(out, &Bucket{path: filepath.Join(bucketsPath, e.Name())})
	}
	return out, nil
}

// SearchMode selects what Matches tests the regex against.
type SearchMode int

const (
	SearchName SearchMode = iota
	SearchBinary
	SearchBoth
)

// IsInstalled reports whether name is installed, consulted by Matches
// when installedOnly is set.
type IsInstalled func(name string) bool

// Matches searches the bucket's package names in parallel:
// SearchName/SearchBoth test re against the manifest name;
// SearchBinary/SearchBoth load each manifest and test re against its
// declared bin aliases. When installedOnly is set, non-installed matches
// are dropped.
func (b *Bucket) Matches(re *regexp.Regexp, mode SearchMode, installedOnly bool, installed IsInstalled) ([]*manifest.Manifest, error) {
	names, err := b.ListPackageNames()
	if err != nil {
		return nil, err
	}

	results := make([]*manifest.Manifest, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if installedOnly && installed != nil && !installed(name) {
				return nil
			}
			if mode == SearchName || mode == SearchBoth {
				if re.MatchString(name) {
					m, err := b.GetManifest(name)
					if err != nil {
						return err
					}
					results[i] = m
					return nil
				}
				if mode == SearchName {
					return nil
				}
			}
			m, err := b.GetManifest(name)
			if err != nil {
				return err
			}
			for _, bin := range m.Bin {
				if re.MatchString(bin) {
					results[i] = m
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, m := range results {
		if m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}
