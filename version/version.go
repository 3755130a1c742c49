// Package version models the opaque version strings attached to manifests
// and the substitution tokens derived from them.
//
// A [Version] is deliberately not parsed into a semantic-versioning scheme:
// manifests in the wild use whatever scheme their upstream project uses.
// The separator-normalizing helpers here only ever rewrite the characters
// '.', '-', and '_' into one another (or remove them); they never touch any
// other character, so the set of non-separator runes in a Version is an
// invariant across Dot/Dash/Underscore/Clean.
package version

import "strings"

// Version is an opaque, tool-defined version string.
type Version string

// String implements fmt.Stringer.
func (v Version) String() string { return string(v) }

const separators = "._-"

func rewrite(s string, sep byte) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(separators, c) >= 0 {
			if sep != 0 {
				b.WriteByte(sep)
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Dot returns v with every separator rune rewritten to '.'.
func (v Version) Dot() string { return rewrite(string(v), '.') }

// Dash returns v with every separator rune rewritten to '-'.
func (v Version) Dash() string { return rewrite(string(v), '-') }

// Underscore returns v with every separator rune rewritten to '_'.
func (v Version) Underscore() string { return rewrite(string(v), '_') }

// Clean returns v with every separator rune removed.
func (v Version) Clean() string { return rewrite(string(v), 0) }

// ParsedVersion is the structured decomposition of a Version produced by
// splitting on '.'. Only Major is required; every later component is
// progressively optional, and components past Patch are carried as opaque
// strings rather than integers since upstream schemes diverge wildly past
// the third component (e.g. "1.2.3-beta.4", "1.2.3.4").
type ParsedVersion struct {
	Major      int
	Minor      *int
	Patch      *int
	Build      *string
	PreRelease *string
}

// NewParsedVersion builds a ParsedVersion from its components. It exists
// so that Version.Parse and Version.String round-trip: for every
// ParsedVersion built by NewParsedVersion, Parse(p.String()).String() ==
// p.String().
func NewParsedVersion(major int, minor, patch *int, build, preRelease *string) ParsedVersion {
	return ParsedVersion{Major: major, Minor: minor, Patch: patch, Build: build, PreRelease: preRelease}
}

// String renders the ParsedVersion back into dot-separated form.
func (p ParsedVersion) String() string {
	parts := []string{itoa(p.Major)}
	if p.Minor != nil {
		parts = append(parts, itoa(*p.Minor))
	}
	if p.Patch != nil {
		parts = append(parts, itoa(*p.Patch))
	}
	if p.Build != nil {
		parts = append(parts, *p.Build)
	}
	if p.PreRelease != nil {
		parts = append(parts, *p.PreRelease)
	}
	return strings.Join(parts, ".")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Parse splits v by '.': the first component is parsed as an integer into
// Major (0 when it is not one);
// the second and third, if present, are parsed as integers into Minor and
// Patch; anything beyond that is carried as opaque strings in Build then
// PreRelease. Non-integer Minor/Patch components fall through to being
// treated as absent (nil), matching manifests whose versions aren't
// strictly numeric past the major component.
func (v Version) Parse() ParsedVersion {
	parts := strings.Split(string(v), ".")
	var p ParsedVersion
	if len(parts) == 0 {
		return p
	}
	p.Major = atoiOr(parts[0], 0)
	rest := parts[1:]
	if len(rest) > 0 {
		if n, ok := atoi(rest[0]); ok {
			p.Minor = &n
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		if n, ok := atoi(rest[0]); ok {
			p.Patch = &n
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		p.Build = &rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		joined := strings.Join(rest, ".")
		p.PreRelease = &joined
	}
	return p
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		i = 1
	}
	if i >= len(s) {
		return 0, false
	}
	n := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

func atoiOr(s string, def int) int {
	if n, ok := atoi(s); ok {
		return n
	}
	return def
}
