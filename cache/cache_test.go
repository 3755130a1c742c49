package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/winpax/gscoop/hash"
)

func TestFileName(t *testing.T) {
	got := FileName("zig", "0.10.1", "https://ziglang.org/download/0.10.1/zig-windows-x86_64-0.10.1.zip")
	want := "zig#0.10.1#zig-windows-x86_64-0.10.1.zip"
	if got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestDownloadAndVerify(t *testing.T) {
	const payload = "hello world"
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer svr.Close()

	dir := t.TempDir()
	h := NewHandle(dir, "greet", "1.0.0", svr.URL+"/greet.txt")

	d := NewDownloader(svr.Client(), nil)
	if err := d.Download(context.Background(), h, nil); err != nil {
		t.Fatalf("Download: %v", err)
	}

	data, err := os.ReadFile(h.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != payload {
		t.Errorf("got %q, want %q", data, payload)
	}

	want, err := hash.Of(hash.SHA256, []byte(payload))
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if err := Verify(h.Path, want); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestDownloadNon2xxFails(t *testing.T) {
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer svr.Close()

	dir := t.TempDir()
	h := NewHandle(dir, "missing", "1.0.0", svr.URL+"/missing.zip")
	d := NewDownloader(svr.Client(), nil)
	if err := d.Download(context.Background(), h, nil); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, err := os.Stat(filepath.Join(dir, h.FileName)); !os.IsNotExist(err) {
		t.Errorf("expected no file written on failed download")
	}
}
