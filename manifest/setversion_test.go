package manifest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/winpax/gscoop/hash"
	"github.com/winpax/gscoop/scooperr"
	"github.com/winpax/gscoop/version"
)

type fakeFetcher struct {
	bodies map[string][]byte
}

func (f fakeFetcher) Get(_ context.Context, url string) (*http.Response, error) {
	b, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("no fake body registered for %s", url)
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(b))}, nil
}

// scratchCapableFetcher additionally satisfies httpClientFetcher, the
// interface downloadAndHash type-asserts for to unlock the scratch-file
// path instead of hashing the response body directly.
type scratchCapableFetcher struct {
	fakeFetcher
	client *http.Client
}

func (f scratchCapableFetcher) HTTPClient() *http.Client { return f.client }

func newTestManifest(mode hash.Mode) *Manifest {
	return &Manifest{
		Version: "1.0.0",
		Autoupdate: &Autoupdate{
			AutoupdateConfig: AutoupdateConfig{
				URL:  StringList{"https://example.com/app-$version.zip"},
				Hash: hash.Extraction{Mode: mode},
			},
		},
		InstallConfig: InstallConfig{
			URL: StringList{"https://example.com/app-1.0.0.zip"},
		},
	}
}

func TestSetVersionRewritesURLAndHash(t *testing.T) {
	const digest = "8a0d9ab86a0274e5a98a31c2aa8b6b9be224e59f6bcfd91de0f8e2a2fb72f1cd"
	m := newTestManifest(hash.ModeText)
	fetcher := fakeFetcher{bodies: map[string][]byte{
		"https://example.com/app-2.0.0.zip": []byte(digest),
	}}

	if err := m.SetVersion(context.Background(), fetcher, "", version.Version("2.0.0"), X64); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}

	if m.Version != "2.0.0" {
		t.Errorf("Version = %q", m.Version)
	}
	if len(m.URL) != 1 || m.URL[0] != "https://example.com/app-2.0.0.zip" {
		t.Errorf("URL = %v", m.URL)
	}
	if len(m.Hash) != 1 || m.Hash[0].String() != digest {
		t.Errorf("Hash = %v, want %q", m.Hash, digest)
	}
}

func TestSetVersionMissingAutoupdate(t *testing.T) {
	m := &Manifest{Version: "1.0.0"}
	err := m.SetVersion(context.Background(), fakeFetcher{}, "", version.Version("2.0.0"), X64)
	if !errors.Is(err, ErrMissingAutoupdate) {
		t.Fatalf("got %v, want ErrMissingAutoupdate", err)
	}
}

func TestSetVersionSurfacesMismatchedHashLength(t *testing.T) {
	m := newTestManifest(hash.ModeText)
	// Six hex characters cannot be any of the {md5,sha1,sha256,sha512}
	// digest lengths; extraction must fail rather than silently accept it.
	fetcher := fakeFetcher{bodies: map[string][]byte{
		"https://example.com/app-2.0.0.zip": []byte("abc123"),
	}}

	err := m.SetVersion(context.Background(), fetcher, "", version.Version("2.0.0"), X64)
	if err == nil {
		t.Fatal("expected an error for a digest of unrecognized length, got nil")
	}
	var scoopErr *scooperr.Error
	if !errors.As(err, &scoopErr) || scoopErr.Kind != scooperr.Hash {
		t.Fatalf("got %v, want a scooperr.Hash error", err)
	}
}

func TestSetVersionDownloadModeHashesArtifactDirectly(t *testing.T) {
	m := newTestManifest(hash.ModeDownload)
	artifact := []byte("totally real installer bytes")
	fetcher := fakeFetcher{bodies: map[string][]byte{
		"https://example.com/app-2.0.0.zip": artifact,
	}}

	if err := m.SetVersion(context.Background(), fetcher, "", version.Version("2.0.0"), X64); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}

	sum := sha256.Sum256(artifact)
	want := hex.EncodeToString(sum[:])
	if len(m.Hash) != 1 {
		t.Fatalf("Hash = %v, want one entry", m.Hash)
	}
	if m.Hash[0].Checksum() == nil || hex.EncodeToString(m.Hash[0].Checksum()) != want {
		t.Errorf("Hash = %v, want sha256 %q", m.Hash, want)
	}
}

// TestSetVersionDownloadModeSpillsToScratchFile exercises the real
// cache.FetchToScratch branch of downloadAndHash: a fetcher that can hand
// out an *http.Client and a non-empty scratchDir together unlock
// disk-backed hashing instead of the in-memory fallback.
func TestSetVersionDownloadModeSpillsToScratchFile(t *testing.T) {
	artifact := []byte("a much larger totally real installer payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(artifact)
	}))
	defer srv.Close()

	m := newTestManifest(hash.ModeDownload)
	m.Autoupdate.AutoupdateConfig.URL = StringList{srv.URL + "/app-$version.zip"}

	fetcher := scratchCapableFetcher{
		fakeFetcher: fakeFetcher{},
		client:      srv.Client(),
	}
	scratchDir := t.TempDir()

	if err := m.SetVersion(context.Background(), fetcher, scratchDir, version.Version("2.0.0"), X64); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}

	sum := sha256.Sum256(artifact)
	want := hex.EncodeToString(sum[:])
	if len(m.Hash) != 1 {
		t.Fatalf("Hash = %v, want one entry", m.Hash)
	}
	if m.Hash[0].Checksum() == nil || hex.EncodeToString(m.Hash[0].Checksum()) != want {
		t.Errorf("Hash = %v, want sha256 %q", m.Hash, want)
	}

	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		t.Fatalf("ReadDir(scratchDir): %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch file left behind: %v, want scratchFile.Close to have removed it", entries)
	}
}
