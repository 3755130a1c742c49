// Package cache implements the content-addressed download cache and
// concurrent downloader: one cache file per (manifest, version, URL)
// triple, streamed to disk with progress reporting and post-download hash
// verification.
package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/winpax/gscoop/hash"
	"github.com/winpax/gscoop/hash/compute"
	"github.com/winpax/gscoop/internal/httputil"
	"github.com/winpax/gscoop/internal/scoopmetrics"
	"github.com/winpax/gscoop/progress"
	"github.com/winpax/gscoop/scooperr"
	"github.com/winpax/gscoop/urlutil"
)

// Handle names one cached download: the file it is (or will be) written
// to and the URL it came from.
type Handle struct {
	URL      string
	FileName string
	Path     string
}

// FileName derives the cache filename for one download URL:
// "{name}#{version}#{remote_filename(url)}".
func FileName(name, version, rawURL string) string {
	return fmt.Sprintf("%s#%s#%s", name, version, urlutil.RemoteFilename(rawURL))
}

// NewHandle builds a Handle rooted at cacheDir for one download URL.
func NewHandle(cacheDir, name, version, rawURL string) Handle {
	fn := FileName(name, version, rawURL)
	return Handle{URL: rawURL, FileName: fn, Path: filepath.Join(cacheDir, fn)}
}

// Downloader performs concurrent, progress-reported downloads into cache
// files and verifies them against expected hashes.
type Downloader struct {
	Client   *http.Client
	Counters *scoopmetrics.Counters
}

// NewDownloader builds a Downloader using client for transport.
func NewDownloader(client *http.Client, counters *scoopmetrics.Counters) *Downloader {
	if counters == nil {
		counters = &scoopmetrics.Counters{}
	}
	return &Downloader{Client: client, Counters: counters}
}

// Download streams h.URL into h.Path, reporting progress through r if
// non-nil. It creates the destination file or truncates an existing one,
// so a repeated download overwrites the earlier cache file.
func (d *Downloader) Download(ctx context.Context, h Handle, r progress.Reporter) error {
	d.Counters.DownloadStarted()
	defer d.Counters.DownloadFinished()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		d.Counters.DownloadFailed()
		return scooperr.New("Downloader.Download", scooperr.Cache, h.URL, err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		d.Counters.DownloadFailed()
		return scooperr.New("Downloader.Download", scooperr.Cache, h.URL, err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckResponse(resp, http.StatusOK); err != nil {
		d.Counters.DownloadFailed()
		return scooperr.New("Downloader.Download", scooperr.Cache, h.URL, err)
	}

	if r != nil {
		r.SetTotal(resp.ContentLength)
		r.SetMessage(progressMessage(h))
	}

	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		d.Counters.DownloadFailed()
		return scooperr.New("Downloader.Download", scooperr.Cache, h.Path, err)
	}
	f, err := os.OpenFile(h.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		d.Counters.DownloadFailed()
		return scooperr.New("Downloader.Download", scooperr.Cache, h.Path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if r != nil {
		w = io.MultiWriter(f, progressWriter{r})
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		d.Counters.DownloadFailed()
		return scooperr.New("Downloader.Download", scooperr.Cache, h.Path, err)
	}
	d.Counters.AddBytesDownloaded(n)
	if r != nil {
		r.Finish()
	}
	return nil
}

// DownloadAll downloads every handle concurrently; one failure aborts the
// whole batch (the first error is returned, remaining downloads are
// canceled via ctx).
func (d *Downloader) DownloadAll(ctx context.Context, handles []Handle, agg *progress.MultiAggregator) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, h := range handles {
		i, h := i, h
		g.Go(func() error {
			var r progress.Reporter
			if agg != nil {
				r = agg.Bar(i, 0)
			}
			return d.Download(ctx, h, r)
		})
	}
	return g.Wait()
}

// Verify computes want.Algorithm()'s digest of the file at path and
// compares it byte-exact (case-insensitive, since compute.File already
// normalizes to lowercase hex) against want.
func Verify(path string, want hash.Hash) error {
	ok, err := compute.Verify(path, want)
	if err != nil {
		return scooperr.New("cache.Verify", scooperr.Cache, path, err)
	}
	if !ok {
		got, _ := compute.File(want.Algorithm(), path)
		return scooperr.Errorf(scooperr.Cache, "hash mismatch: expected %s found %s", want, got)
	}
	return nil
}

func progressMessage(h Handle) string {
	leaf := urlutil.Leaf(h.URL)
	if leaf != "" {
		return leaf
	}
	if i := strings.LastIndexByte(h.FileName, '_'); i >= 0 {
		return h.FileName[i+1:]
	}
	return h.FileName
}

type progressWriter struct{ r progress.Reporter }

func (p progressWriter) Write(b []byte) (int, error) {
	p.r.Add(int64(len(b)))
	return len(b), nil
}
