package status

import (
	"os"
	"path/filepath"
	"testing"

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

func TestCollectOutdatedAndHeld(t *testing.T) {
	ctx := newTestContext(t)

	writeFile(t, filepath.Join(ctx.AppsPath(), "zig", "current", "manifest.json"),
		`{"version":"0.10.0"}`)
	writeFile(t, filepath.Join(ctx.AppsPath(), "zig", "current", "install.json"),
		`{"bucket":"main","hold":true}`)
	writeFile(t, filepath.Join(ctx.BucketsPath(), "main", "zig.json"),
		`{"version":"0.11.0"}`)

	apps, err := ctx.InstalledApps()
	if err != nil {
		t.Fatalf("InstalledApps: %v", err)
	}
	statuses, err := Collect(apps, NewContextReader(ctx), NewContextReader(ctx))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("len(statuses) = %d, want 1", len(statuses))
	}
	st := statuses[0]
	if st.Name != "zig" || st.Current != "0.10.0" || st.Available != "0.11.0" {
		t.Errorf("unexpected status: %+v", st)
	}
	if st.Info != "Held package" {
		t.Errorf("Info = %q, want %q", st.Info, "Held package")
	}
	if !st.Outdated() {
		t.Errorf("Outdated() = false, want true")
	}
}

func TestCollectInstallFailedWithoutCurrent(t *testing.T) {
	ctx := newTestContext(t)
	if err := os.MkdirAll(filepath.Join(ctx.AppsPath(), "broken"), 0o755); err != nil {
		t.Fatal(err)
	}

	statuses, err := Collect([]string{"broken"}, NewContextReader(ctx), NewContextReader(ctx))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Info != "Install failed" {
		t.Fatalf("statuses = %+v, want Install failed", statuses)
	}
}

func TestCollectMissingDependencies(t *testing.T) {
	ctx := newTestContext(t)

	writeFile(t, filepath.Join(ctx.AppsPath(), "app", "current", "manifest.json"),
		`{"version":"1.0.0","depends":["lib"]}`)
	writeFile(t, filepath.Join(ctx.AppsPath(), "app", "current", "install.json"),
		`{"bucket":"main"}`)
	writeFile(t, filepath.Join(ctx.BucketsPath(), "main", "app.json"),
		`{"version":"1.0.0"}`)

	statuses, err := Collect([]string{"app"}, NewContextReader(ctx), NewContextReader(ctx))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("len(statuses) = %d", len(statuses))
	}
	if got := statuses[0].MissingDependencies; len(got) != 1 || got[0] != "lib" {
		t.Errorf("MissingDependencies = %v, want [lib]", got)
	}
}
