package bucket

import "github.com/winpax/gscoop/manifest"

// InstallManifestReader loads the install.json sidecar for an installed
// app, the data source Used needs without bucket importing the full
// context package.
type InstallManifestReader func(appName string) (*manifest.InstallManifest, error)

// Used returns the set of distinct bucket names referenced by every
// installed app's install manifest.
func Used(installedApps []string, read InstallManifestReader) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, app := range installedApps {
		im, err := read(app)
		if err != nil {
			continue
		}
		if im.Bucket == "" {
			continue
		}
		if _, ok := seen[im.Bucket]; ok {
			continue
		}
		seen[im.Bucket] = struct{}{}
		out = append(out, im.Bucket)
	}
	return out, nil
}

// Outdater is satisfied by *gitrepo.Repository; kept as an interface here
// so bucket doesn't need to import gitrepo.
type Outdater interface {
	Outdated() (bool, error)
}

// Outdated delegates to repo, the git adapter opened at b.Path().
func (b *Bucket) Outdated(repo Outdater) (bool, error) {
	return repo.Outdated()
}
