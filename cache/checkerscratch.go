package cache

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/winpax/gscoop/internal/httputil"
	"github.com/winpax/gscoop/scooperr"
)

// FetchToScratch streams url's response body (the autoupdate artifact
// manifest.SetVersion hashes under ModeDownload) to a self-deleting
// scratch file under dir rather than buffering it in memory, and returns
// the file rewound to its start. Callers must Close the returned
// file when done with it, which also removes it from disk.
func FetchToScratch(ctx context.Context, client *http.Client, dir, url string) (*scratchFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, scooperr.New("cache.FetchToScratch", scooperr.IO, url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, scooperr.New("cache.FetchToScratch", scooperr.IO, url, err)
	}
	defer resp.Body.Close()
	if err := httputil.CheckResponse(resp, http.StatusOK); err != nil {
		return nil, scooperr.New("cache.FetchToScratch", scooperr.IO, url, err)
	}

	f, err := newScratchFile(dir)
	if err != nil {
		return nil, scooperr.New("cache.FetchToScratch", scooperr.IO, dir, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return nil, scooperr.New("cache.FetchToScratch", scooperr.IO, url, err)
	}
	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		f.Close()
		return nil, scooperr.New("cache.FetchToScratch", scooperr.IO, url, err)
	}
	return f, nil
}
