package urlutil

import "testing"

func TestRemoteFilename(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://ziglang.org/download/0.10.1/zig-windows-x86_64-0.10.1.zip", "zig-windows-x86_64-0.10.1.zip"},
		{"https://example.com/sfsu-x86_64.exe#/sfsu.exe", "sfsu.exe"},
		{"https://example.com/download?dl=thing.tar.gz", "thing.tar.gz"},
		{"https://example.com/releases/1.2.3", "/releases/1.2.3"},
	}
	for _, tc := range cases {
		if got := RemoteFilename(tc.url); got != tc.want {
			t.Errorf("RemoteFilename(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestRemoteFilenameNeverEmpty(t *testing.T) {
	urls := []string{
		"https://example.com/a",
		"https://example.com/a/b/c",
		"https://example.com/a.zip",
	}
	for _, u := range urls {
		if got := RemoteFilename(u); got == "" {
			t.Errorf("RemoteFilename(%q) returned empty string", u)
		}
	}
}

func TestLeaf(t *testing.T) {
	if got := Leaf("/a/b/c.txt"); got != "c.txt" {
		t.Errorf("Leaf = %q", got)
	}
	if got := Leaf("https://example.com/a/b/"); got != "b" {
		t.Errorf("Leaf = %q", got)
	}
}

func TestStripFragmentAndFilename(t *testing.T) {
	if got := StripFragment("https://example.com/a#frag"); got != "https://example.com/a" {
		t.Errorf("StripFragment = %q", got)
	}
	if got := StripFilename("https://example.com/a/b.zip?x=1"); got != "https://example.com/a/" {
		t.Errorf("StripFilename = %q", got)
	}
}
