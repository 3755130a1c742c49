// Package urlutil provides the small set of URL-shredding helpers the
// manifest, hash, and cache packages share: deriving a download's remote
// filename, stripping fragments/filenames from a URL, and reading off the
// last path segment.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	queryFilenameRe = regexp.MustCompile(`[?=]+([\w._-]+)`)
	versionishRe    = regexp.MustCompile(`^[v.\d]+$`)
)

// RemoteFilename derives the filename a download should be cached/saved
// under, given its source URL. It never returns an empty string when
// rawURL's path is non-empty:
//
//  1. if the query string matches `.*[?=]+([\w._-]+)`, that capture wins
//     (handles "?dl=name.zip"-shaped redirectors);
//  2. else if the last path segment contains a '.' and isn't purely
//     "[v.\d]+" (a bare version number, e.g. a ".../1.2.3" path with no
//     real filename), that segment wins;
//  3. else if there's no '.' anywhere in the path but there is a fragment,
//     the fragment (stripped of leading "#/") wins — this is the
//     "https://example.com/download#/real-name.exe" idiom some manifests
//     use to name an otherwise-opaque download;
//  4. otherwise the raw path is returned as-is.
func RemoteFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Leaf(rawURL)
	}
	if u.RawQuery != "" {
		if m := queryFilenameRe.FindStringSubmatch(u.RawQuery); m != nil {
			return m[1]
		}
	}
	leaf := Leaf(u.Path)
	if strings.Contains(leaf, ".") && !versionishRe.MatchString(leaf) {
		return leaf
	}
	if !strings.Contains(u.Path, ".") && u.Fragment != "" {
		return strings.TrimLeft(u.Fragment, "#/")
	}
	if u.Path != "" {
		return u.Path
	}
	return leaf
}

// Leaf returns the last '/'-delimited segment of a path or URL.
func Leaf(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// StripFragment returns rawURL with any "#..." fragment removed.
func StripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// StripFilename returns rawURL with its final path segment removed,
// leaving the trailing '/'.
func StripFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.LastIndexByte(rawURL, '/'); i >= 0 {
			return rawURL[:i+1]
		}
		return rawURL
	}
	if i := strings.LastIndexByte(u.Path, '/'); i >= 0 {
		u.Path = u.Path[:i+1]
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
