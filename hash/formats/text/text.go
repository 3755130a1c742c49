// Package text implements the plain-text regex hash extraction mode: a
// regex (possibly a "$sha256"-style shorthand) is matched against a
// checker page's raw body and its first capture group normalized to a
// lowercase hex digest.
package text

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/winpax/gscoop/version"
)

// ErrRegex wraps a regex that failed to compile.
var ErrRegex = errors.New("text: invalid regex")

// ErrBase64 wraps a captured value that looked like base64 but failed to
// decode.
var ErrBase64 = errors.New("text: invalid base64 digest")

// ErrNotFound reports that no regex, including the fallback searches,
// matched anything in the body.
var ErrNotFound = errors.New("text: no digest found in body")

// regexTemplates maps the shorthand tokens a manifest's regex may use to
// the concrete pattern that locates a digest of the implied length, so
// authors can write "$sha256" instead of repeating
// "([a-fA-F0-9]{64})" in every bucket.
var regexTemplates = version.SubstitutionMap{
	"$md5":      `([a-fA-F0-9]{32})`,
	"$sha1":     `([a-fA-F0-9]{40})`,
	"$sha256":   `([a-fA-F0-9]{64})`,
	"$sha512":   `([a-fA-F0-9]{128})`,
	"$checksum": `([a-fA-F0-9]{32,128})`,
	"$base64":   `([a-zA-Z0-9+/=]{24,88})`,
}

// defaultRegex is used when regex, after template substitution, is
// empty: most checker pages are a bare hex digest with surrounding
// whitespace.
const defaultRegex = `^\s*([a-fA-F0-9]+)\s*$`

// validHexLen is the set of hex-digest lengths md5/sha1/sha256/sha512
// digests can have.
var validHexLen = map[int]bool{32: true, 40: true, 64: true, 128: true}

var (
	hexPattern    = regexp.MustCompile(`^[a-fA-F0-9]+$`)
	base64Pattern = regexp.MustCompile(`^[a-zA-Z0-9+/]+=*$`)
)

// Extract matches regex (after expanding any $md5/$sha1/$sha256/
// $sha512/$checksum/$base64 token) against body's full text and
// normalizes its first capture group to a lowercase hex digest. When the
// primary pattern matches nothing, two fallback searches run in order: a
// hex digest followed, after whitespace, by basename later on the same
// line (the
// "<hash>  filename" convention), then a metalink-style
// "<hash ...>digest</hash>" fragment.
func Extract(body []byte, regex, basename string) (string, error) {
	source := string(body)

	pattern := version.Substitute(regex, regexTemplates, false)
	if pattern == "" {
		pattern = defaultRegex
	}

	digest, err := searchAndNormalize(pattern, source)
	switch {
	case err == nil:
		return digest, nil
	case !errors.Is(err, ErrNotFound):
		return "", err
	}

	if basename != "" {
		fallback := `([a-fA-F0-9]{32,128})[\x20\t]+.*` + regexp.QuoteMeta(basename)
		if digest, err := searchAndNormalize(fallback, source); err == nil {
			return digest, nil
		}
	}

	if digest, err := searchAndNormalize(`<hash[^>]+>([a-fA-F0-9]{64})`, source); err == nil {
		return digest, nil
	}

	return "", fmt.Errorf("%w: regex %q matched nothing in body", ErrNotFound, regex)
}

func searchAndNormalize(pattern, source string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRegex, pattern, err)
	}
	m := re.FindStringSubmatch(source)
	if len(m) < 2 {
		return "", fmt.Errorf("%w: pattern %q matched nothing", ErrNotFound, pattern)
	}
	return normalize(stripASCIISpaces(m[1]))
}

func stripASCIISpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' {
			return -1
		}
		return r
	}, s)
}

// normalize returns captured as lowercase hex, decoding it from base64
// first when it isn't already a hex string of a valid digest length but
// does look like base64.
func normalize(captured string) (string, error) {
	if hexPattern.MatchString(captured) && validHexLen[len(captured)] {
		return strings.ToLower(captured), nil
	}
	if base64Pattern.MatchString(captured) {
		raw, err := base64.StdEncoding.DecodeString(captured)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrBase64, captured, err)
		}
		return hex.EncodeToString(raw), nil
	}
	return strings.ToLower(captured), nil
}
