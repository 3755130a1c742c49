package version

import "github.com/winpax/gscoop/urlutil"

// SubstitutionMap is a mapping from a literal template token (e.g.
// "$version", "$url") to its replacement string. Keys are unique;
// Substitute applies them in map iteration order (see Substitute for when
// that order matters).
type SubstitutionMap map[string]string

// FromVersionAndURL populates the version- and url-derived tokens common to
// every autoupdate and hash-extraction template: $version, $dotVersion,
// $underscoreVersion, $dashVersion, $cleanVersion, $url, $baseurl, and
// $basename.
func FromVersionAndURL(v Version, rawURL string) SubstitutionMap {
	m := SubstitutionMap{
		"$version":           v.String(),
		"$dotVersion":        v.Dot(),
		"$underscoreVersion": v.Underscore(),
		"$dashVersion":       v.Dash(),
		"$cleanVersion":      v.Clean(),
	}
	if rawURL != "" {
		m["$url"] = rawURL
		m["$baseurl"] = urlutil.StripFilename(urlutil.StripFragment(rawURL))
		m["$basename"] = urlutil.RemoteFilename(rawURL)
	}
	return m
}

// Merge returns a new SubstitutionMap containing every entry of m, then
// overwritten by every entry of other.
func (m SubstitutionMap) Merge(other SubstitutionMap) SubstitutionMap {
	out := make(SubstitutionMap, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
