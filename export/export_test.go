package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/winpax/gscoop/scoopctx"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestContext(t *testing.T) scoopctx.Context {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SCOOP", dir)
	ctx, err := scoopctx.NewUserContext()
	if err != nil {
		t.Fatalf("NewUserContext: %v", err)
	}
	return ctx
}

func TestBuildSortsAppsAndSetsPURL(t *testing.T) {
	ctx := newTestContext(t)

	old := timeNow
	timeNow = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { timeNow = old }()

	writeFile(t, filepath.Join(ctx.AppsPath(), "zig", "current", "manifest.json"), `{"version":"0.10.0"}`)
	writeFile(t, filepath.Join(ctx.AppsPath(), "zig", "current", "install.json"), `{"bucket":"main"}`)
	writeFile(t, filepath.Join(ctx.AppsPath(), "Alpha", "current", "manifest.json"), `{"version":"1.0.0"}`)
	writeFile(t, filepath.Join(ctx.AppsPath(), "Alpha", "current", "install.json"), `{"bucket":"main","hold":true}`)

	snap, err := Build(ctx, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Apps) != 2 {
		t.Fatalf("len(Apps) = %d, want 2", len(snap.Apps))
	}
	if snap.Apps[0].Name != "Alpha" || snap.Apps[1].Name != "zig" {
		t.Errorf("apps not sorted case-insensitively: %+v", snap.Apps)
	}
	if snap.Apps[0].Info != "Held" {
		t.Errorf("Alpha Info = %q, want Held", snap.Apps[0].Info)
	}
	want := "pkg:scoop/main/Alpha@1.0.0"
	if snap.Apps[0].PURL != want {
		t.Errorf("PURL = %q, want %q", snap.Apps[0].PURL, want)
	}
}

func TestBuildCountsBucketManifests(t *testing.T) {
	ctx := newTestContext(t)
	writeFile(t, filepath.Join(ctx.BucketsPath(), "main", "zig.json"), `{"version":"0.10.0"}`)
	writeFile(t, filepath.Join(ctx.BucketsPath(), "main", "alpha.json"), `{"version":"1.0.0"}`)

	snap, err := Build(ctx, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Buckets) != 1 || snap.Buckets[0].Manifests != 2 {
		t.Errorf("Buckets = %+v, want one bucket with 2 manifests", snap.Buckets)
	}
}

func TestBuildIncludesConfig(t *testing.T) {
	ctx := newTestContext(t)
	snap, err := Build(ctx, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snap.Config == nil {
		t.Fatal("Config = nil, want non-nil when includeConfig is true")
	}
}
