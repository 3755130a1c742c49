package manifest

import (
	"encoding/json"
	"testing"

	"github.com/winpax/gscoop/version"
)

const zigManifest = `{
  "version": "0.10.1",
  "description": "A general-purpose programming language and toolchain.",
  "homepage": "https://ziglang.org/",
  "url": "https://ziglang.org/download/0.10.1/zig-windows-i386-0.10.1.zip",
  "hash": "a3fd5a12a270ab7d4928bd9fb1e4a8bbc8e8c3f0c5b7a6b2a5e9c9d7a2e3b4c1",
  "bin": "zig.exe",
  "architecture": {
    "64bit": {
      "url": "https://ziglang.org/download/0.10.1/zig-windows-x86_64-0.10.1.zip",
      "hash": "7a10da0ef5de6dc2a7202c5043762e01724c0c8f3e8a89e1f3bb59e6f3b92a10"
    }
  },
  "autoupdate": {
    "architecture": {
      "64bit": {
        "url": "https://ziglang.org/download/$version/zig-windows-x86_64-$version.zip"
      }
    }
  }
}`

func TestManifestUnmarshalAndEffectiveConfig(t *testing.T) {
	var m Manifest
	if err := json.Unmarshal([]byte(zigManifest), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Version != version.Version("0.10.1") {
		t.Errorf("Version = %q", m.Version)
	}

	x64 := m.EffectiveInstallConfig(X64)
	if len(x64.URL) != 1 || x64.URL[0] != "https://ziglang.org/download/0.10.1/zig-windows-x86_64-0.10.1.zip" {
		t.Errorf("x64 url = %v", x64.URL)
	}

	// arm64 has no overlay and no fallback: falls back to the default
	// InstallConfig unchanged.
	arm := m.EffectiveInstallConfig(Arm64)
	if len(arm.URL) != 1 || arm.URL[0] != "https://ziglang.org/download/0.10.1/zig-windows-i386-0.10.1.zip" {
		t.Errorf("arm64 url = %v", arm.URL)
	}

	// bin is never overridden per-architecture in this manifest, so every
	// arch's effective config keeps the default value.
	if len(arm.Bin) != 1 || arm.Bin[0] != "zig.exe" {
		t.Errorf("arm64 bin = %v", arm.Bin)
	}
}

func TestEffectiveInstallConfigFallbackX64ToX86(t *testing.T) {
	m := Manifest{
		InstallConfig: InstallConfig{URL: []string{"https://example.com/default.zip"}},
		Architecture: &ManifestArchitecture{
			X86: &InstallConfig{URL: []string{"https://example.com/x86.zip"}},
		},
	}
	got := m.EffectiveInstallConfig(X64)
	if len(got.URL) != 1 || got.URL[0] != "https://example.com/x86.zip" {
		t.Errorf("x64-falls-back-to-x86 url = %v, want x86.zip", got.URL)
	}
}

func TestInstallManifestGetSource(t *testing.T) {
	cases := []struct {
		im   InstallManifest
		want string
	}{
		{InstallManifest{Bucket: "main"}, "main"},
		{InstallManifest{URL: "https://example.com/x.json"}, "https://example.com/x.json"},
		{InstallManifest{}, "Unknown"},
	}
	for _, tc := range cases {
		if got := tc.im.GetSource(); got != tc.want {
			t.Errorf("GetSource() = %q, want %q", got, tc.want)
		}
	}
}
