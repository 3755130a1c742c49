package reference

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseBucketNamePair(t *testing.T) {
	r, err := Parse("main/zig@0.10.1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Kind != KindBucketName || r.Bucket != "main" || r.PkgName != "zig" || r.Version != "0.10.1" {
		t.Errorf("got %+v", r)
	}
}

func TestParseBareName(t *testing.T) {
	r, err := Parse("zig")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Kind != KindName || r.PkgName != "zig" {
		t.Errorf("got %+v", r)
	}
}

func TestParseURL(t *testing.T) {
	r, err := Parse("https://example.com/zig.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Kind != KindURL {
		t.Errorf("got %+v", r)
	}
	if got := r.Name(); got != "zig" {
		t.Errorf("Name() = %q, want zig", got)
	}
}

func TestParseExistingFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "zig.json")
	if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Parse(p)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Kind != KindFile {
		t.Errorf("got %+v", r)
	}
	if got := r.Name(); got != "zig" {
		t.Errorf("Name() = %q, want zig", got)
	}
}

func TestParseTooManySegments(t *testing.T) {
	if _, err := Parse("a/b/c"); err == nil {
		t.Errorf("expected error for too many segments")
	}
}
