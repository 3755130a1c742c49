package manifest

import (
	"context"
	"io"
	"net/http"

	"github.com/winpax/gscoop/cache"
	"github.com/winpax/gscoop/hash"
	"github.com/winpax/gscoop/hash/compute"
	"github.com/winpax/gscoop/scooperr"
	"github.com/winpax/gscoop/urlutil"
	"github.com/winpax/gscoop/version"
)

// Fetcher performs the GET request SetVersion needs to reach a checker
// page for hash extraction. *request.Client satisfies this.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// httpClientFetcher is implemented by Fetchers (*request.Client) that can
// also hand out their underlying *http.Client, which ModeDownload needs
// to stream an artifact to a scratch file instead of hashing the response
// body directly.
type httpClientFetcher interface {
	HTTPClient() *http.Client
}

// SetVersion implements the manifest update algorithm:
//  1. require an autoupdate block, else ErrMissingAutoupdate;
//  2. compute the effective autoupdate config for arch;
//  3. replace the version;
//  4. substitute $version (and friends) into url/extract_dir/bin/shortcut
//     fields;
//  5. for each substituted URL, recompute its Hash: either extract it
//     from the checker page the URL points at (text/json/xml/rdf mode),
//     or, under ModeDownload, stream the artifact itself to scratchDir
//     and hash it locally. When the autoupdate block has no hash rule,
//     no new hash is computed and the existing Hash entries are kept
//     unchanged. scratchDir may be empty, in which case ModeDownload
//     hashes the response body as it streams in rather than spilling it
//     to disk.
func (m *Manifest) SetVersion(ctx context.Context, fetcher Fetcher, scratchDir string, newVersion version.Version, arch Architecture) error {
	if m.Autoupdate == nil {
		return ErrMissingAutoupdate
	}
	auConfig := m.Autoupdate.EffectiveAutoupdateConfig(arch)

	m.Version = newVersion
	target := m.EffectiveInstallConfig(arch)

	newURLs := make([]string, len(auConfig.URL))
	newHashes := make([]hash.Hash, 0, len(auConfig.URL))
	for i, u := range auConfig.URL {
		newURL := version.Substitute(u, version.FromVersionAndURL(newVersion, ""), false)
		subs := version.FromVersionAndURL(newVersion, newURL)
		newURLs[i] = newURL

		if auConfig.Hash.Empty() {
			continue
		}

		var (
			h   hash.Hash
			err error
		)
		if auConfig.Hash.Downloads() {
			h, err = downloadAndHash(ctx, fetcher, scratchDir, newURL, auConfig.Hash.DownloadAlgorithm())
		} else {
			h, err = fetchAndExtract(ctx, fetcher, newURL, auConfig.Hash, subs)
		}
		if err != nil {
			return scooperr.New("Manifest.SetVersion", scooperr.Hash, newURL, err)
		}
		newHashes = append(newHashes, h)
	}
	target.URL = newURLs
	if len(newHashes) > 0 {
		target.Hash = newHashes
	}

	dirSubs := version.FromVersionAndURL(newVersion, "")
	target.ExtractDir = version.SubstituteSlice(auConfig.ExtractDir, dirSubs, false)
	target.Bin = version.SubstituteSlice(auConfig.Bin, dirSubs, false)
	if auConfig.Shortcuts != nil {
		shortcuts := make([][]string, len(auConfig.Shortcuts))
		for i, sc := range auConfig.Shortcuts {
			shortcuts[i] = version.SubstituteSlice(sc, dirSubs, false)
		}
		target.Shortcuts = shortcuts
	}

	m.applyEffective(arch, target)
	return nil
}

// applyEffective writes an updated effective InstallConfig back into the
// manifest: into the architecture overlay if arch has one, else into the
// manifest's default InstallConfig.
func (m *Manifest) applyEffective(arch Architecture, cfg InstallConfig) {
	if overlay := m.Architecture.Get(arch); overlay != nil {
		*overlay = cfg
		return
	}
	m.InstallConfig = cfg
}

func fetchAndExtract(ctx context.Context, fetcher Fetcher, u string, he hash.Extraction, subs version.SubstitutionMap) (hash.Hash, error) {
	resp, err := fetcher.Get(ctx, urlutil.StripFragment(u))
	if err != nil {
		return hash.Hash{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return hash.Hash{}, err
	}
	return hash.Extract(ctx, he, body, subs)
}

// downloadAndHash streams u and returns its digest under algo, without
// ever reading the checker-page extraction pipeline. When fetcher can
// hand out its underlying *http.Client and scratchDir is set, the body
// spills to a self-deleting scratch file instead of memory, for
// artifacts too large to comfortably buffer.
func downloadAndHash(ctx context.Context, fetcher Fetcher, scratchDir, u string, algo hash.Algorithm) (hash.Hash, error) {
	hc, ok := fetcher.(httpClientFetcher)
	if !ok || scratchDir == "" {
		resp, err := fetcher.Get(ctx, u)
		if err != nil {
			return hash.Hash{}, err
		}
		defer resp.Body.Close()
		return compute.Reader(algo, resp.Body)
	}

	f, err := cache.FetchToScratch(ctx, hc.HTTPClient(), scratchDir, u)
	if err != nil {
		return hash.Hash{}, err
	}
	defer f.Close()
	return compute.Reader(algo, f)
}
